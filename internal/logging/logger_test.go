package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"jobvault/internal/logging"
	"jobvault/internal/services"
)

func TestNewConsoleLoggerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("importing jobs", logging.String("source", "jobtrack"), logging.Int("count", 3))
	out := buf.String()
	if !strings.Contains(out, "importing jobs") {
		t.Fatalf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "source=jobtrack") || !strings.Contains(out, "count=3") {
		t.Fatalf("missing attrs in output: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output should be suppressed, got %q", buf.String())
	}
}

func TestWithContextDerivesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithSource(context.Background(), "contractflow")
	ctx = services.WithStage(ctx, "extract")
	logging.WithContext(ctx, logger).Info("probing schema")

	out := buf.String()
	if !strings.Contains(out, "source=contractflow") || !strings.Contains(out, "stage=extract") {
		t.Fatalf("context fields missing: %q", out)
	}
}
