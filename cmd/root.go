package cmd

import (
	"context"
	"os"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logging"
	"github.com/urfave/cli/v3"
)

// RootCommand assembles the askdb CLI
func RootCommand() *cli.Command {
	return &cli.Command{
		Name:  "askdb",
		Usage: "Ask your database questions in natural language",
		Description: `askdb profiles a live database, retrieves curated knowledge about it,
and uses an LLM to turn natural language questions into read-only SQL,
execute it, and explain the results.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db-driver",
				Usage: "database driver (postgres or duckdb)",
			},
			&cli.StringFlag{
				Name:  "db-dsn",
				Usage: "database connection string",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.IntFlag{
				Name:  "top-k",
				Usage: "number of knowledge snippets to retrieve",
			},
		},
		Commands: []*cli.Command{
			AskCommand(),
			ProfileCommand(),
			KnowledgeCommand(),
			ConfigCommand(),
		},
	}
}

// Execute runs the CLI
func Execute() error {
	return RootCommand().Run(context.Background(), os.Args)
}

// loadConfig resolves configuration with the root-level flag overrides
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	overrides := map[string]interface{}{
		"db-driver": cmd.String("db-driver"),
		"db-dsn":    cmd.String("db-dsn"),
		"log-level": cmd.String("log-level"),
		"top-k":     int(cmd.Int("top-k")),
	}

	cfg, err := config.LoadConfigWithOverrides(overrides)
	if err != nil {
		return nil, err
	}

	if err := logging.InitializeLogger(cfg.Logging); err != nil {
		logging.SetupFallbackLogger()
	}

	return cfg, nil
}
