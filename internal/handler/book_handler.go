package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/rs/zerolog"
)

// BookHandler handles catalogue HTTP requests.
type BookHandler struct {
	service service.BookService
	logger  zerolog.Logger
}

// NewBookHandler creates a new book handler.
func NewBookHandler(service service.BookService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger.With().Str("handler", "book").Logger(),
	}
}

// GetAll handles GET /api/books requests with pagination.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.queryInt(w, r, "limit", 10)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	books, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve books", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/books/{id} requests.
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if bookID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "book ID is required", h.logger)
		return
	}

	book, err := h.service.GetByID(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeBookNotFound, "book not found", h.logger)
			return
		}
		writeServiceError(w, r, err, "failed to retrieve book", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return v, true
}
