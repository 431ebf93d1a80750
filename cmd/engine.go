package cmd

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/cache"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/database"
	"github.com/askdb/askdb/internal/embedding"
	"github.com/askdb/askdb/internal/generator"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/orchestrator"
	"github.com/askdb/askdb/internal/retrieval"
	"github.com/askdb/askdb/internal/schema"
)

// engine bundles the wired pipeline for the CLI commands
type engine struct {
	cfg          *config.Config
	db           *database.DB
	store        *knowledge.Store
	profiles     []*schema.TableProfile
	orchestrator *orchestrator.Orchestrator
}

// newEngine opens the database, profiles the schema, loads the knowledge
// corpus, and wires the orchestrator.
func newEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := buildKnowledgeStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	profiler := schema.NewProfiler(db, cfg.Profiler)

	profiles, err := profiler.ProfileAll(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	logging.Infof("Profiled %d tables", len(profiles))

	gen, err := generator.NewClient(cfg.Generator)
	if err != nil {
		db.Close()
		return nil, err
	}

	assembler := retrieval.NewAssembler(store, cfg.Context, cfg.Knowledge)

	return &engine{
		cfg:          cfg,
		db:           db,
		store:        store,
		profiles:     profiles,
		orchestrator: orchestrator.New(assembler, gen, db, profiles, cfg.Generator),
	}, nil
}

// buildKnowledgeStore creates the store and loads the seed corpus
func buildKnowledgeStore(ctx context.Context, cfg *config.Config) (*knowledge.Store, error) {
	manager, err := embedding.NewManager(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	if cfg.Knowledge.CacheEnabled {
		vectorCache, err := cache.NewVectorCache(cfg.Knowledge.CacheDir)
		if err != nil {
			logging.Warnf("Embedding cache disabled: %v", err)
		} else {
			manager = manager.WithCache(vectorCache)
		}
	}

	store := knowledge.NewStore(manager)
	if err := store.AddAll(ctx, knowledge.SeedEntries()); err != nil {
		return nil, fmt.Errorf("failed to load knowledge corpus: %w", err)
	}

	return store, nil
}

// Close releases the engine's resources
func (e *engine) Close() error {
	return e.db.Close()
}
