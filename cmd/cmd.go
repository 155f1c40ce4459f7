// Package cmd provides CLI commands for the FyreOne service.
//
// Commands:
//   - serve: HTTP API server for the fire safety compliance assistant
//   - version: build information
//
// Running the binary without arguments starts the server, matching how
// PaaS platforms invoke it. Signal handling and graceful shutdown are
// implemented via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/fyreone/fyreone/internal/log"
)

// Execute is the main entry point for the fyreone binary.
func Execute() error {
	// A .env file is a development convenience; deployments set real
	// environment variables.
	_ = godotenv.Load()

	// Initialize logger once at entry point
	logCfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		logCfg.Level = slog.LevelDebug
	}
	slog.SetDefault(log.New(logCfg))

	if len(os.Args) < 2 {
		return runServe()
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("FyreOne - Fire safety compliance assistant API")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fyreone              Start the HTTP API server")
	fmt.Println("  fyreone serve [addr] Start the HTTP API server (default: 0.0.0.0:$PORT)")
	fmt.Println("  fyreone --version    Show version information")
	fmt.Println("  fyreone --help       Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PINECONE_API_KEY   Pinecone API key (retrieval disabled if unset)")
	fmt.Println("  GROQ_API_KEY       Groq API key (answers fall back if unset)")
	fmt.Println("  HF_API_KEY         HuggingFace API key (retrieval disabled if unset)")
	fmt.Println("  ADMIN_PASSWORD     Admin dashboard password")
	fmt.Println("  PORT               Listen port (default: 8001)")
	fmt.Println("  DATA_DIR           Directory for the JSON data file (default: /tmp)")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
	fmt.Println()
	fmt.Println("A .env file in the working directory is loaded if present.")
}
