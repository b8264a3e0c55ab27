package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed limits.yaml
var limitsYAML []byte

type Config struct {
	API    APIConfig
	Upload UploadConfig
}

type APIConfig struct {
	URL     string        // SnapCircle backend root URL (e.g. http://localhost:8000)
	Timeout time.Duration // per-request HTTP timeout
}

// UploadConfig holds client-side photo upload constraints. Defaults come from
// the embedded limits.yaml; SNAPCIRCLE_MAX_BATCH can raise or lower the batch
// cap per deployment.
type UploadConfig struct {
	MaxFileSizeMiB int `yaml:"max_file_size_mib"`
	MaxBatch       int `yaml:"max_batch"`
}

// MaxFileSize returns the per-file upload limit in bytes.
func (u *UploadConfig) MaxFileSize() int64 {
	return int64(u.MaxFileSizeMiB) << 20
}

// limitsFile is the embedded defaults document.
type limitsFile struct {
	Upload UploadConfig `yaml:"upload"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func Load() *Config {
	var limits limitsFile
	if err := yaml.Unmarshal(limitsYAML, &limits); err != nil {
		// Embedded file, cannot fail in practice.
		panic("failed to unmarshal embedded limits.yaml: " + err.Error())
	}

	apiURL := os.Getenv("SNAPCIRCLE_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8000"
	}

	upload := limits.Upload
	upload.MaxBatch = envInt("SNAPCIRCLE_MAX_BATCH", upload.MaxBatch)

	return &Config{
		API: APIConfig{
			URL:     apiURL,
			Timeout: time.Duration(envInt("SNAPCIRCLE_API_TIMEOUT", 30)) * time.Second,
		},
		Upload: upload,
	}
}
