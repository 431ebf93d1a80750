package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/urfave/cli/v3"
)

func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Display the active configuration",
		Description: `Show the current active configuration including all settings from file, environment variables, and command-line flags.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "write the active configuration to the config file",
			},
		},
		Action: runConfig,
	}
}

func runConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("Configuration saved.")
		return nil
	}

	fmt.Println("Active Configuration")
	fmt.Println("====================")

	fmt.Println("\nDatabase:")
	fmt.Printf("  Driver: %s\n", cfg.Database.Driver)
	fmt.Printf("  DSN: %s\n", redactDSN(cfg.Database.DSN))
	fmt.Printf("  Max Connections: %d\n", cfg.Database.MaxConnections)
	fmt.Printf("  Query Timeout: %s\n", cfg.Database.QueryTimeout)

	fmt.Println("\nProfiler:")
	fmt.Printf("  Sample Data Size: %d\n", cfg.Profiler.SampleDataSize)
	fmt.Printf("  Categorical Max Distinct: %d\n", cfg.Profiler.CategoricalMaxDistinct)
	fmt.Printf("  Categorical Max Ratio: %.2f\n", cfg.Profiler.CategoricalMaxRatio)

	fmt.Println("\nKnowledge:")
	fmt.Printf("  Top K: %d\n", cfg.Knowledge.TopK)
	fmt.Printf("  Cache Enabled: %t\n", cfg.Knowledge.CacheEnabled)

	if cfg.Knowledge.CacheEnabled {
		fmt.Printf("  Cache Directory: %s\n", cfg.Knowledge.CacheDir)
	}

	fmt.Println("\nContext:")
	fmt.Printf("  Max Chars: %d\n", cfg.Context.MaxChars)

	fmt.Println("\nGenerator:")
	fmt.Printf("  Provider: %s\n", cfg.Generator.Provider)
	fmt.Printf("  Model: %s\n", cfg.Generator.Model)
	fmt.Printf("  Timeout: %s\n", cfg.Generator.Timeout)
	fmt.Printf("  Max Explain Rows: %d\n", cfg.Generator.MaxExplainRows)

	fmt.Println("\nEmbedding:")
	fmt.Printf("  Provider: %s\n", cfg.Embedding.Provider)
	fmt.Printf("  Model: %s\n", cfg.Embedding.Model)
	fmt.Printf("  Dimensions: %d\n", cfg.Embedding.Dimensions)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level: %s\n", cfg.Logging.Level)
	fmt.Printf("  Format: %s\n", cfg.Logging.Format)
	fmt.Printf("  Output: %s\n", cfg.Logging.Output)

	if cfg.Logging.Output == "file" {
		fmt.Printf("  File: %s\n", cfg.Logging.File)
	}

	return nil
}

// redactDSN hides credentials embedded in a connection string
func redactDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	scheme := strings.Index(dsn, "://")

	if at > 0 && scheme > 0 && scheme+3 < at {
		return dsn[:scheme+3] + "***" + dsn[at:]
	}

	return dsn
}
