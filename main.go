package main

import "github.com/snapcircle/snapcircle/cmd"

func main() {
	cmd.Execute()
}
