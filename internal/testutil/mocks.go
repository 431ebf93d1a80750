package testutil

import (
	"context"
	"sync"

	"github.com/askdb/askdb/internal/database"
)

// MockGenerator implements generator.Service for testing with scripted
// responses and error injection.
type MockGenerator struct {
	mu sync.Mutex

	responses []string
	errors    map[int]error
	calls     int
	prompts   []string
}

// GeneratorOption is a functional option for configuring MockGenerator
type GeneratorOption func(*MockGenerator)

// WithResponses queues the responses returned by successive Generate calls.
// The last response repeats once the queue is exhausted.
func WithResponses(responses ...string) GeneratorOption {
	return func(m *MockGenerator) {
		m.responses = responses
	}
}

// WithGenerateError injects an error on the nth Generate call (zero-based)
func WithGenerateError(call int, err error) GeneratorOption {
	return func(m *MockGenerator) {
		m.errors[call] = err
	}
}

// NewMockGenerator creates a mock generation service
func NewMockGenerator(opts ...GeneratorOption) *MockGenerator {
	mock := &MockGenerator{
		errors: make(map[int]error),
	}

	for _, opt := range opts {
		opt(mock)
	}

	return mock
}

// Generate returns the next scripted response
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if err, ok := m.errors[call]; ok {
		return "", err
	}

	if len(m.responses) == 0 {
		return "", nil
	}

	if call >= len(m.responses) {
		return m.responses[len(m.responses)-1], nil
	}

	return m.responses[call], nil
}

// CallCount returns how many times Generate was called
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns the prompts passed to Generate, in call order
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// MockExecutor implements the orchestrator's executor interface with canned
// result sets keyed by SQL.
type MockExecutor struct {
	mu sync.Mutex

	results map[string]*database.ResultSet
	err     error
	queries []string
}

// ExecutorOption is a functional option for configuring MockExecutor
type ExecutorOption func(*MockExecutor)

// WithResult maps a SQL statement to a result set
func WithResult(sql string, result *database.ResultSet) ExecutorOption {
	return func(m *MockExecutor) {
		m.results[sql] = result
	}
}

// WithExecuteError makes every execution fail with err
func WithExecuteError(err error) ExecutorOption {
	return func(m *MockExecutor) {
		m.err = err
	}
}

// NewMockExecutor creates a mock query executor
func NewMockExecutor(opts ...ExecutorOption) *MockExecutor {
	mock := &MockExecutor{
		results: make(map[string]*database.ResultSet),
	}

	for _, opt := range opts {
		opt(mock)
	}

	return mock
}

// ExecuteReadOnly returns the canned result for the statement
func (m *MockExecutor) ExecuteReadOnly(ctx context.Context, query string) (*database.ResultSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)

	if m.err != nil {
		return nil, m.err
	}

	if result, ok := m.results[query]; ok {
		return result, nil
	}

	return &database.ResultSet{}, nil
}

// Queries returns the executed statements in call order
func (m *MockExecutor) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
