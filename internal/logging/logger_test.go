package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(level LogLevel, format string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &Logger{
		level:  level,
		format: format,
		output: buf,
		fields: make(map[string]interface{}),
	}

	return logger, buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(WarnLevel, "text")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Error("Expected debug/info messages to be filtered at warn level")
	}

	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Error("Expected warn/error messages in output")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(InfoLevel, "json")

	logger.WithField("table", "customers").Info("profiled table")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}

	if entry.Message != "profiled table" {
		t.Errorf("Expected message 'profiled table', got %q", entry.Message)
	}

	if entry.Fields["table"] != "customers" {
		t.Errorf("Expected table field, got %v", entry.Fields)
	}
}

func TestLoggerWithFieldsDoesNotMutateParent(t *testing.T) {
	logger, _ := newBufferLogger(InfoLevel, "text")

	child := logger.WithFields(map[string]interface{}{"stage": "executed"})

	if len(logger.fields) != 0 {
		t.Error("Expected parent logger fields to stay empty")
	}

	if child.fields["stage"] != "executed" {
		t.Error("Expected child logger to carry the new field")
	}
}

func TestLoggerWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(InfoLevel, "text")

	if logger.WithError(nil) != logger {
		t.Error("Expected WithError(nil) to return the same logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}

	for input, expected := range cases {
		if got := parseLogLevel(input); got != expected {
			t.Errorf("parseLogLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}
