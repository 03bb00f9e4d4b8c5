package main

import (
	"os"

	"gitdeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
