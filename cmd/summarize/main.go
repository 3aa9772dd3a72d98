// Command summarize is a one-shot CLI over the same orchestrator as the
// server: it reads text from stdin or a file, produces a summary, and writes
// it to stdout or to a txt/pdf artifact.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"essentia/internal/app"
	"essentia/internal/export"
	"essentia/internal/prompt"
	"essentia/internal/provider"
	"essentia/internal/summarize"
)

func main() {
	styleFlag := flag.String("style", "bullet", "summary style: bullet or paragraph")
	inFlag := flag.String("in", "", "input file (default: stdin)")
	outFlag := flag.String("o", "", "output file; .pdf renders a PDF, anything else plain text (default: stdout)")
	localFlag := flag.Bool("local", false, "also call the local Ollama provider and reconcile the two summaries")
	flag.Parse()

	if err := run(*styleFlag, *inFlag, *outFlag, *localFlag); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(styleStr, in, out string, local bool) error {
	style, err := prompt.ParseStyle(styleStr)
	if err != nil {
		return err
	}

	text, err := readInput(in)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("please enter some text to summarize")
	}

	deps, err := app.Build()
	if err != nil {
		return err
	}
	defer func() {
		_ = deps.Sessions.Close()
		_ = deps.Events.Close()
	}()
	orch := selectOrchestrator(deps, local)
	sum, err := orch.Summarize(context.Background(), summarize.Request{Text: text, Style: style})
	if err != nil {
		return err
	}
	for _, note := range sum.Notes {
		fmt.Fprintln(os.Stderr, "note:", note)
	}

	return writeOutput(out, sum.Text)
}

// selectOrchestrator honors the -local flag: when set and the configured
// orchestrator is single-provider, the Ollama secondary is wired in from
// config (falling back to the default local URL and model).
func selectOrchestrator(deps app.Deps, local bool) *summarize.Orchestrator {
	if !local || deps.Local != nil {
		return deps.Orchestrator
	}
	ollama := provider.NewOllamaClient(deps.Config.OllamaURL, deps.Config.OllamaModel, deps.Config.ProviderTimeout)
	return summarize.New(deps.Hosted, ollama, deps.Log, deps.Config.ProviderTimeout)
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(path, summary string) error {
	if path == "" {
		fmt.Println(summary)
		return nil
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		rendered, pages, err := export.PDF(summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d page(s)\n", pages)
		data = rendered
	} else {
		data = export.Text(summary)
	}
	return os.WriteFile(path, data, 0o644)
}
