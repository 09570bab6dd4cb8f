// Command cad-mcp runs the CAD drawing MCP server over stdin/stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/draftforge/cad-tools-mcp/internal/config"
	"github.com/draftforge/cad-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	verbose    bool
)

func newLogger() (*zap.Logger, error) {
	// stdout carries the MCP protocol, so all logging goes to stderr.
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Info("starting server",
		zap.String("version", Version),
		zap.String("commit", GitCommit),
	)
	return server.New(cfg, logger).Run()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "cad-mcp",
		Short: "MCP server for 2D CAD drawing and shape recognition",
		Long: `cad-mcp exposes an in-memory 2D drawing through the MCP protocol:
layers, drawing primitives, square and circle recognition, derived
constructions, and PNG export.

The server communicates via MCP over stdin/stdout. Configure it in your
MCP client (e.g., Claude Desktop).`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cad-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
