package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/embedding"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/urfave/cli/v3"
)

func KnowledgeCommand() *cli.Command {
	return &cli.Command{
		Name:        "knowledge",
		Usage:       "Inspect and query the knowledge corpus",
		Description: `Work with the curated knowledge entries that ground SQL generation: list the corpus, run a similarity search against it, or preview imported documents.`,
		Commands: []*cli.Command{
			knowledgeListCommand(),
			knowledgeSearchCommand(),
			knowledgeImportCommand(),
		},
	}
}

func knowledgeListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all knowledge entries",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := loadStore(ctx, cfg)
			if err != nil {
				return err
			}

			for _, entry := range store.List() {
				fmt.Printf("%-24s %-18s %s\n", entry.ID, entry.Type(), firstSentence(entry.Content))
			}

			return nil
		},
	}
}

func knowledgeSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the knowledge corpus by similarity",
		ArgsUsage: " <query>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("expected a search query")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := loadStore(ctx, cfg)
			if err != nil {
				return err
			}

			query := strings.Join(cmd.Args().Slice(), " ")

			results, err := store.Search(ctx, query, cfg.Knowledge.TopK)
			if err != nil {
				return err
			}

			for _, result := range results {
				fmt.Printf("%.3f  %-24s %s\n", result.Score, result.Entry.ID,
					firstSentence(result.Entry.Content))
			}

			return nil
		},
	}
}

func knowledgeImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Preview knowledge entries parsed from a JSON or HTML file",
		ArgsUsage: " <file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "entry type assigned to HTML imports",
				Value: "domain_knowledge",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}

			path := cmd.Args().First()

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			var entries []knowledge.Entry

			switch strings.ToLower(filepath.Ext(path)) {
			case ".html", ".htm":
				entries, err = knowledge.EntriesFromHTML(string(data), cmd.String("type"))
			case ".json":
				entries, err = knowledge.EntriesFromJSON(data)
			default:
				return fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
			}

			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Printf("%s (%s)\n%s\n\n", entry.ID, entry.Type(), entry.Content)
			}

			return nil
		},
	}
}

// loadStore builds a knowledge store with the seed corpus for inspection
func loadStore(ctx context.Context, cfg *config.Config) (*knowledge.Store, error) {
	manager, err := embedding.NewManager(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	store := knowledge.NewStore(manager)
	if err := store.AddAll(ctx, knowledge.SeedEntries()); err != nil {
		return nil, err
	}

	return store, nil
}

// firstSentence truncates content for one-line listings
func firstSentence(content string) string {
	if i := strings.IndexAny(content, ".\n"); i > 0 && i < 80 {
		return content[:i+1]
	}

	if len(content) > 80 {
		return content[:77] + "..."
	}

	return content
}
