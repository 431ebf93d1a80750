package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/askdb/askdb/internal/database"
	"github.com/askdb/askdb/internal/schema"
	"github.com/urfave/cli/v3"
)

func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:        "profile",
		Usage:       "Profile database tables",
		Description: `Inspect the connected database and print table profiles: column types, nullability, categorical value sets, and randomized sample rows. With no arguments every user table is profiled.`,
		ArgsUsage:   " [table...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit profiles as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runProfile(ctx, cmd, cmd.Args().Slice())
		},
	}
}

func runProfile(ctx context.Context, cmd *cli.Command, tables []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	profiler := schema.NewProfiler(db, cfg.Profiler)

	var profiles []*schema.TableProfile

	if len(tables) == 0 {
		profiles, err = profiler.ProfileAll(ctx)
		if err != nil {
			return err
		}
	} else {
		for _, table := range tables {
			profile, err := profiler.Profile(ctx, table)
			if err != nil {
				return fmt.Errorf("failed to profile %s: %w", table, err)
			}
			profiles = append(profiles, profile)
		}
	}

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(profiles)
	}

	fmt.Print(schema.SummaryAll(profiles))

	return nil
}
