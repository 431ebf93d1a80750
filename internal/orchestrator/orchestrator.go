package orchestrator

import (
	"context"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/database"
	apperrors "github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/generator"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/retrieval"
	"github.com/askdb/askdb/internal/schema"
)

// Stage identifies how far a question made it through the pipeline
type Stage string

const (
	StageIdle         Stage = "idle"
	StageContextBuilt Stage = "context_built"
	StageSQLGenerated Stage = "sql_generated"
	StageExecuted     Stage = "executed"
	StageExplained    Stage = "explained"
	StageFailed       Stage = "failed"
)

// Executor runs read-only SQL against the target database
type Executor interface {
	ExecuteReadOnly(ctx context.Context, query string) (*database.ResultSet, error)
}

// Result is the full outcome of answering one question
type Result struct {
	Question  string                   `json:"question"`
	SQL       string                   `json:"sql"`
	Columns   []string                 `json:"columns"`
	Rows      []map[string]interface{} `json:"rows"`
	Answer    string                   `json:"answer"`
	Knowledge []knowledge.SearchResult `json:"knowledge"`
	Stage     Stage                    `json:"stage"`
}

// Orchestrator drives a question through context assembly, SQL generation,
// read-only execution, and explanation. Each step advances the stage; a
// failure marks the result failed and reports the stage it died in.
type Orchestrator struct {
	assembler *retrieval.Assembler
	generator generator.Service
	executor  Executor
	profiles  []*schema.TableProfile
	cfg       config.GeneratorConfig
}

// New creates an orchestrator over pre-profiled schema
func New(
	assembler *retrieval.Assembler,
	gen generator.Service,
	executor Executor,
	profiles []*schema.TableProfile,
	cfg config.GeneratorConfig,
) *Orchestrator {
	return &Orchestrator{
		assembler: assembler,
		generator: gen,
		executor:  executor,
		profiles:  profiles,
		cfg:       cfg,
	}
}

// Answer runs the full pipeline for one question
func (o *Orchestrator) Answer(ctx context.Context, question string) (*Result, error) {
	result := &Result{Question: question, Stage: StageIdle}

	if strings.TrimSpace(question) == "" {
		return o.fail(result, StageIdle,
			apperrors.New(apperrors.ErrTypeValidation, "question cannot be empty"))
	}

	retrieved, err := o.assembler.BuildContext(ctx, question, o.profiles)
	if err != nil {
		return o.fail(result, StageIdle, err)
	}

	result.Knowledge = retrieved.Snippets
	result.Stage = StageContextBuilt
	logging.Debugf("Context built with %d knowledge snippets", len(retrieved.Snippets))

	sql, err := o.generateSQL(ctx, retrieved, question)
	if err != nil {
		return o.fail(result, StageContextBuilt, err)
	}

	result.SQL = sql
	result.Stage = StageSQLGenerated
	logging.Debugf("Generated SQL: %s", sql)

	queryResult, err := o.executor.ExecuteReadOnly(ctx, sql)
	if err != nil {
		return o.fail(result, StageSQLGenerated, err)
	}

	result.Columns = queryResult.Columns
	result.Rows = queryResult.Rows
	result.Stage = StageExecuted

	answer, err := o.explain(ctx, question, sql, queryResult)
	if err != nil {
		return o.fail(result, StageExecuted, err)
	}

	result.Answer = answer
	result.Stage = StageExplained

	return result, nil
}

// Plan runs the pipeline up to SQL generation without executing anything.
// Useful for reviewing what would run against the database.
func (o *Orchestrator) Plan(ctx context.Context, question string) (*Result, error) {
	result := &Result{Question: question, Stage: StageIdle}

	if strings.TrimSpace(question) == "" {
		return o.fail(result, StageIdle,
			apperrors.New(apperrors.ErrTypeValidation, "question cannot be empty"))
	}

	retrieved, err := o.assembler.BuildContext(ctx, question, o.profiles)
	if err != nil {
		return o.fail(result, StageIdle, err)
	}

	result.Knowledge = retrieved.Snippets
	result.Stage = StageContextBuilt

	sql, err := o.generateSQL(ctx, retrieved, question)
	if err != nil {
		return o.fail(result, StageContextBuilt, err)
	}

	result.SQL = sql
	result.Stage = StageSQLGenerated

	return result, nil
}

// generateSQL prompts the model and extracts a validated statement
func (o *Orchestrator) generateSQL(ctx context.Context, retrieved *retrieval.RetrievedContext, question string) (string, error) {
	prompt := generator.BuildGenerationPrompt(retrieved.Document(), question)

	response, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return generator.ExtractSQL(response)
}

// explain turns the result set into a natural language answer
func (o *Orchestrator) explain(ctx context.Context, question, sql string, result *database.ResultSet) (string, error) {
	prompt := generator.BuildExplanationPrompt(question, sql, result, o.cfg.MaxExplainRows)

	answer, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", apperrors.New(apperrors.ErrTypeGeneration,
			"model returned an empty explanation")
	}

	return answer, nil
}

// fail finalizes a result at the stage the pipeline died in. The partial
// result is returned alongside the error so callers can show what was
// produced before the failure.
func (o *Orchestrator) fail(result *Result, stage Stage, err error) (*Result, error) {
	result.Stage = StageFailed

	logging.ErrorWithErr("Pipeline failed", err)

	if appErr, ok := err.(*apperrors.Error); ok {
		return result, appErr.WithDetail("stage", string(stage))
	}

	return result, apperrors.Wrap(err, apperrors.ErrTypeInternal, "pipeline failed").
		WithDetail("stage", string(stage))
}
