package main

import (
	"os"

	"github.com/kunalroy0223/liveiq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
