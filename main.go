package main

import (
	"contributions-viewer/cmd"
)

func main() {
	cmd.Execute()
}
