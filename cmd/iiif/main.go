package main

import (
	"os"

	"github.com/umd-lib/iiif/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
