package main

import (
	"os"

	"gmocoin-trader/cmd/gmobot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
