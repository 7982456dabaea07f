package main

import (
	"os"

	cmd "github.com/rpack-dev/rpack/internal"
	"github.com/rpack-dev/rpack/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
