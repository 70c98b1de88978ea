package main

import (
	"fmt"
	"os"

	"github.com/bethropolis/llm-context-gen/internal/app"
	"github.com/bethropolis/llm-context-gen/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	cmd := config.NewCommand(version, func(cfg *config.Config) error {
		return app.New(cfg).Run()
	})

	if err := cmd.Execute(); err != nil {
		// Run already logged fatal errors; flag and config errors have not been printed yet
		if !app.IsReported(err) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
