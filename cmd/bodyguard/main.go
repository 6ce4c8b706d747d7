package main

import (
	"os"

	"github.com/tkingovr/body-guard/cmd/bodyguard/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
