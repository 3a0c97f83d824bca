// Package api serves the read-only album catalog over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/boot"
)

// Handler serves catalog reads from one repository.
type Handler struct {
	repo   album.Repository
	info   boot.Info
	logger *slog.Logger
}

// NewHandler returns a handler over repo. info is served verbatim at /appinfo.
func NewHandler(repo album.Repository, info boot.Info, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{repo: repo, info: info, logger: logger}
}

// NewRouter registers the catalog routes and middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.healthz)
	r.Get("/appinfo", h.appInfo)
	r.Route("/albums", func(r chi.Router) {
		r.Get("/", h.listAlbums)
		r.Get("/{id}", h.getAlbum)
	})
	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) appInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h *Handler) listAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list albums failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "list albums failed")
		return
	}
	if albums == nil {
		albums = []album.Album{}
	}
	writeJSON(w, http.StatusOK, albums)
}

func (h *Handler) getAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.repo.FindByID(r.Context(), id)
	switch {
	case errors.Is(err, album.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "album "+id+" not found")
	case err != nil:
		h.logger.ErrorContext(r.Context(), "get album failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "get album failed")
	default:
		writeJSON(w, http.StatusOK, a)
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("X-Request-Id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{Code: code, Message: message})
}
