package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"essentia/internal/app"
	"essentia/internal/config"
	"essentia/internal/prompt"
	"essentia/internal/provider"
	"essentia/internal/summarize"
)

func TestReadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("some text"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := readInput(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "some text" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestWriteOutputText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutput(path, "- a summary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "- a summary" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestLocalFlagReconcilesBothProviders(t *testing.T) {
	var ollamaCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ollamaCalls++
		fmt.Fprint(w, `{"response":"summary B"}`)
	}))
	defer srv.Close()

	hosted := &provider.MockGenerator{}
	hosted.On("Name").Return("gemini").Maybe()
	hosted.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Summarize the following text")
	})).Return("summary A", nil).Once()
	hosted.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "summary A") && strings.Contains(p, "summary B")
	})).Return("merged summary", nil).Once()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := app.Deps{
		Config: config.Config{
			OllamaURL:       srv.URL,
			OllamaModel:     "gemma:2b",
			ProviderTimeout: time.Second,
		},
		Log:          log,
		Hosted:       hosted,
		Orchestrator: summarize.New(hosted, nil, log, time.Second),
	}

	orch := selectOrchestrator(deps, true)
	sum, err := orch.Summarize(context.Background(), summarize.Request{Text: "some text", Style: prompt.StyleBullet})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Origin != summarize.OriginMerged || sum.Text != "merged summary" {
		t.Errorf("expected reconciled summary, got %q (%s)", sum.Text, sum.Origin)
	}
	if ollamaCalls != 1 {
		t.Errorf("expected one local provider call, got %d", ollamaCalls)
	}
	hosted.AssertExpectations(t)
}

func TestLocalFlagOffKeepsConfiguredOrchestrator(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hosted := &provider.MockGenerator{}
	deps := app.Deps{
		Log:          log,
		Hosted:       hosted,
		Orchestrator: summarize.New(hosted, nil, log, time.Second),
	}

	if selectOrchestrator(deps, false) != deps.Orchestrator {
		t.Error("without -local the configured orchestrator must be used as-is")
	}
}

func TestWriteOutputPDFByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := writeOutput(path, "- a summary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}
