package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/virtualritz/glyphana/internal/logger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if os.Getenv("GLYPHANA_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger.New("glyphana"))

	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
