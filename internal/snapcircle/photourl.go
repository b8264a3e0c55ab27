package snapcircle

import "strings"

// PhotoURL resolves an image path from the backend into a fetchable URL.
// The backend returns either absolute URLs (pre-signed cloud storage, used
// verbatim) or relative paths (local storage, served under /uploads/ on the
// API host). Both must work without configuration.
func (c *Client) PhotoURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	return c.rootURL + "/uploads/" + strings.TrimPrefix(imagePath, "/")
}
