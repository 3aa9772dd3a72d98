package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"essentia/internal/app"
	"essentia/internal/events"
	"essentia/internal/export"
	"essentia/internal/extract"
	"essentia/internal/httputil"
	"essentia/internal/prompt"
	"essentia/internal/session"
	"essentia/internal/summarize"
	"essentia/web"
)

var validate = validator.New()

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		_ = deps.Sessions.Close()
		_ = deps.Events.Close()
	}()

	r := httputil.NewRouter(deps.Log)
	r.Get("/", web.Handler())
	r.Post("/api/summarize", summarizeHandler(deps))
	r.Get("/api/sessions/{id}", sessionHandler(deps))
	r.Get("/api/sessions/{id}/export", exportHandler(deps))
	r.Post("/api/extract", extractHandler(deps))
	r.Get("/api/models", modelsHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("server stopped")
}

type summarizeRequest struct {
	SessionID string `json:"session_id"`
	// Text is checked separately so empty and whitespace-only input share
	// the same warning.
	Text       string `json:"text"`
	Style      string `json:"style" validate:"required,oneof=bullet paragraph"`
	Regenerate bool   `json:"regenerate"`
}

type summarizeResponse struct {
	SessionID string             `json:"session_id"`
	Summary   *summarize.Summary `json:"summary"`
	Cached    bool               `json:"cached"`
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req summarizeRequest
		r.Body = http.MaxBytesReader(w, r.Body, deps.Config.MaxUploadSize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request body", err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			httputil.Fail(deps.Log, w, "a style of bullet or paragraph is required", err, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			httputil.Fail(deps.Log, w, "please enter some text to summarize", nil, http.StatusBadRequest)
			return
		}
		style := prompt.Style(req.Style)

		sess := loadSession(ctx, deps, req.SessionID)

		// Ready state: unchanged input and style, summary already stored,
		// and no explicit regenerate. No provider call is made.
		if !req.Regenerate && sess.Ready() && sess.Matches(req.Text, style) {
			httputil.WriteJSON(w, http.StatusOK, summarizeResponse{
				SessionID: sess.ID.String(),
				Summary:   sess.Summary,
				Cached:    true,
			})
			return
		}

		sum, err := deps.Orchestrator.Summarize(ctx, summarize.Request{Text: req.Text, Style: style})
		if err != nil {
			if errors.Is(err, summarize.ErrEmptyInput) {
				httputil.Fail(deps.Log, w, "please enter some text to summarize", err, http.StatusBadRequest)
				return
			}
			httputil.Fail(deps.Log, w, fmt.Sprintf("summarization failed: %v", err), err, http.StatusBadGateway)
			return
		}

		sess.Input = req.Text
		sess.Style = style
		sess.Summary = &sum
		sess.UpdatedAt = time.Now()
		if err := deps.Sessions.Put(ctx, sess, deps.Config.SessionTTL); err != nil {
			// The summary is still returned; only the Ready-state caching
			// is lost.
			deps.Log.Warn("failed to store session", "session_id", sess.ID, "err", err)
		}

		notifyCompleted(deps, sess.ID, sum, style)

		httputil.WriteJSON(w, http.StatusOK, summarizeResponse{
			SessionID: sess.ID.String(),
			Summary:   &sum,
		})
	}
}

// loadSession resolves the request's session, minting a fresh one for absent,
// invalid, or expired ids.
func loadSession(ctx context.Context, deps app.Deps, id string) *session.Session {
	if id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			if sess, err := deps.Sessions.Get(ctx, parsed); err == nil {
				return sess
			}
		}
	}
	return &session.Session{ID: uuid.New()}
}

func notifyCompleted(deps app.Deps, id uuid.UUID, sum summarize.Summary, style prompt.Style) {
	ev := events.Completed{
		SessionID: id.String(),
		Origin:    string(sum.Origin),
		Style:     string(style),
		Chars:     len(sum.Text),
		At:        time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := events.PublishWithRetry(ctx, deps.Events, ev, 3, 200*time.Millisecond); err != nil {
			deps.Log.Warn("failed to publish completion event", "session_id", ev.SessionID, "err", err)
		}
	}()
}

func sessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromURL(deps, w, r)
		if !ok {
			return
		}
		httputil.WriteJSON(w, http.StatusOK, sess)
	}
}

func exportHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromURL(deps, w, r)
		if !ok {
			return
		}
		if !sess.Ready() {
			httputil.Fail(deps.Log, w, "no summary available for this session", nil, http.StatusConflict)
			return
		}

		switch r.URL.Query().Get("format") {
		case "txt":
			httputil.WriteDownload(w, export.TextFilename, "text/plain; charset=utf-8", export.Text(sess.Summary.Text))
		case "pdf":
			data, pages, err := export.PDF(sess.Summary.Text)
			if err != nil {
				httputil.Fail(deps.Log, w, "failed to render pdf", err, http.StatusInternalServerError)
				return
			}
			deps.Log.Debug("pdf rendered", "session_id", sess.ID, "pages", pages)
			httputil.WriteDownload(w, export.PDFFilename, "application/pdf", data)
		default:
			httputil.Fail(deps.Log, w, "unknown format (valid options: txt, pdf)", nil, http.StatusBadRequest)
		}
	}
}

func sessionFromURL(deps app.Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(deps.Log, w, "invalid session id", err, http.StatusBadRequest)
		return nil, false
	}
	sess, err := deps.Sessions.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		httputil.Fail(deps.Log, w, "session not found", err, status)
		return nil, false
	}
	return sess, true
}

func extractHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := extract.FromUpload(header.Filename, content)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusUnprocessableEntity)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"text":  text,
			"chars": len(text),
		})
	}
}

func modelsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Gemini == nil {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"provider": deps.Config.HostedProvider,
				"selected": deps.HostedModel,
			})
			return
		}

		models, err := deps.Gemini.ListModels(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list models", err, http.StatusBadGateway)
			return
		}
		type modelEntry struct {
			Name        string `json:"name"`
			DisplayName string `json:"display_name,omitempty"`
			Generative  bool   `json:"generative"`
		}
		entries := make([]modelEntry, 0, len(models))
		for _, m := range models {
			entries = append(entries, modelEntry{
				Name:        m.Name,
				DisplayName: m.DisplayName,
				Generative:  m.Generative(),
			})
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"provider": "gemini",
			"selected": deps.Gemini.Model(),
			"models":   entries,
		})
	}
}
