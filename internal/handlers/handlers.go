package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/kunu2009/socials/internal/catalog"
	"github.com/kunu2009/socials/internal/genai"
	"github.com/kunu2009/socials/internal/models"
	"github.com/kunu2009/socials/internal/orchestrator"
	"github.com/kunu2009/socials/internal/storage"
)

// Handler exposes the four UI intents (generate, refine, swap, export) plus
// catalog and settings endpoints as JSON over HTTP.
type Handler struct {
	orch     *orchestrator.Service
	store    storage.Interface
	markdown goldmark.Markdown
	timeout  time.Duration
}

// New creates the HTTP handler set.
func New(orch *orchestrator.Service, store storage.Interface, timeout time.Duration) *Handler {
	return &Handler{
		orch:     orch,
		store:    store,
		markdown: goldmark.New(),
		timeout:  timeout,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate", h.generate).Methods("POST")
	api.HandleFunc("/posts", h.posts).Methods("GET")
	api.HandleFunc("/posts/export", h.export).Methods("GET")
	api.HandleFunc("/posts/{platform}/refine", h.refine).Methods("POST")
	api.HandleFunc("/posts/{platform}/swap-image", h.swapImage).Methods("POST")
	api.HandleFunc("/platforms", h.platforms).Methods("GET")
	api.HandleFunc("/settings", h.settings).Methods("GET")
	api.HandleFunc("/settings/api-key", h.saveAPIKey).Methods("PUT")
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	posts, err := h.orch.Generate(ctx, req)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *Handler) posts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orch.State())
}

type refineRequest struct {
	Instruction string `json:"instruction"`
}

func (h *Handler) refine(w http.ResponseWriter, r *http.Request) {
	platformName := mux.Vars(r)["platform"]

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	post, err := h.orch.Refine(ctx, platformName, req.Instruction)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) swapImage(w http.ResponseWriter, r *http.Request) {
	platformName := mux.Vars(r)["platform"]

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	post, err := h.orch.SwapImage(ctx, platformName)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// export renders the captions of the current result set for copying, either
// as plain text or with markdown rendered to HTML.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	state := h.orch.State()
	if len(state.Posts) == 0 {
		writeError(w, http.StatusNotFound, "no posts to export")
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "text":
		sections := make([]string, len(state.Posts))
		for i, post := range state.Posts {
			sections[i] = fmt.Sprintf("--- %s ---\n%s", post.Platform.Name, post.PostText)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Join(sections, "\n\n")))
	case "html":
		var buf bytes.Buffer
		for _, post := range state.Posts {
			fmt.Fprintf(&buf, "<h2>%s</h2>\n", post.Platform.Name)
			if err := h.markdown.Convert([]byte(post.PostText), &buf); err != nil {
				logrus.Errorf("Failed to render caption for %s: %v", post.Platform.Name, err)
				fmt.Fprintf(&buf, "<p>%s</p>\n", post.PostText)
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	default:
		writeError(w, http.StatusBadRequest, "format must be 'text' or 'html'")
	}
}

func (h *Handler) platforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"platforms": catalog.All()})
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	key, err := h.store.LoadAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hasApiKey": key != ""})
}

type saveKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func (h *Handler) saveAPIKey(w http.ResponseWriter, r *http.Request) {
	var req saveKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The key is stored as-is; it is only checked when a call is made.
	if err := h.store.SaveAPIKey(req.APIKey); err != nil {
		logrus.Errorf("Failed to save API key: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save API key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// writeWorkflowError maps orchestration errors onto HTTP statuses following
// the error taxonomy: validation before any external call, platform-scoped
// failures, and provider failures.
func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, orchestrator.ErrEmptyInstruction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, genai.ErrNoAPIKey):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, orchestrator.ErrNoPost):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrNoImage), errors.Is(err, orchestrator.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logrus.Errorf("Workflow failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
