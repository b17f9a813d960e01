package main

import (
	"os"

	"github.com/MrKriegler/go-renewals/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
