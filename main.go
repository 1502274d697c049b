package main

import (
	"os"

	"github.com/a11ykraft/a11ykraft/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
