package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/errors"
	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"
)

func AskCommand() *cli.Command {
	return &cli.Command{
		Name:        "ask",
		Usage:       "Answer a natural language question about the database",
		Description: `Profile the database, retrieve relevant knowledge, generate a read-only SQL query, execute it, and explain the results in natural language.`,
		ArgsUsage:   " <question>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sql-only",
				Usage: "print the generated SQL without executing it",
			},
			&cli.BoolFlag{
				Name:  "show-knowledge",
				Usage: "list the knowledge entries used for generation",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() == 0 {
				return fmt.Errorf("expected a question, e.g. askdb ask \"how many customers per country\"")
			}

			question := strings.Join(args.Slice(), " ")

			return runAsk(ctx, cmd, question)
		},
	}
}

func runAsk(ctx context.Context, cmd *cli.Command, question string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	progress := newProgress("Connecting and profiling schema...")
	progress.Start()

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		progress.Stop()
		return formatPipelineError(err)
	}
	defer eng.Close()

	progress.Suffix = " Answering question..."

	timeout := cfg.Database.QueryTimeoutDuration() + cfg.Generator.TimeoutDuration()
	askCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if cmd.Bool("sql-only") {
		result, err := eng.orchestrator.Plan(askCtx, question)
		progress.Stop()

		if err != nil {
			return formatPipelineError(err)
		}

		fmt.Println(result.SQL)

		return nil
	}

	result, err := eng.orchestrator.Answer(askCtx, question)
	progress.Stop()

	if err != nil {
		if result != nil && result.SQL != "" {
			fmt.Printf("Generated SQL:\n  %s\n\n", result.SQL)
		}
		return formatPipelineError(err)
	}

	fmt.Printf("SQL:\n  %s\n\n", result.SQL)
	fmt.Printf("Rows returned: %d\n\n", len(result.Rows))
	fmt.Printf("Answer:\n%s\n", result.Answer)

	if cmd.Bool("show-knowledge") && len(result.Knowledge) > 0 {
		fmt.Printf("\nKnowledge used:\n")
		for _, snippet := range result.Knowledge {
			fmt.Printf("  - %s (score %.3f)\n", snippet.Entry.ID, snippet.Score)
		}
	}

	return nil
}

// newProgress builds a terminal spinner for long-running steps
func newProgress(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return s
}

// formatPipelineError renders a pipeline failure with its stage and any
// suggestions attached to the error.
func formatPipelineError(err error) error {
	if stage := errors.GetDetail(err, "stage"); stage != "" {
		return fmt.Errorf("failed at stage %s: %w", stage, err)
	}
	return err
}
