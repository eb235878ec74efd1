package book

import (
	"booksapi/internal/httpx"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

const deletedMessage = "Book deleted"

type HTTPHandler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHTTPHandler(service *Service, logger logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type listResponse struct {
	Books []Book `json:"books"`
}

type bookResponse struct {
	Book Book `json:"book"`
}

// Register binds the book routes on mux. The trailing-slash collection
// routes match what existing clients send.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{$}", h.List)
	mux.HandleFunc("GET /books/{isbn}", h.GetByISBN)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("POST /books/{$}", h.Create)
	mux.HandleFunc("PUT /books/{isbn}", h.Update)
	mux.HandleFunc("DELETE /books/{isbn}", h.Delete)
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {object} listResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Books: books})
}

// GetByISBN handles GET /books/{isbn}
// @Summary Get book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} bookResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	b, err := h.service.GetByISBN(r.Context(), isbn)
	if err != nil {
		h.writeError(w, r, err, isbn)
		return
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: b})
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body Input true "Book"
// @Success 201 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := DecodeInput(r.Body, true)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}

	created, err := h.service.Create(r.Context(), in.Book(*in.ISBN))
	if err != nil {
		h.writeError(w, r, err, *in.ISBN)
		return
	}
	httpx.JSON(w, http.StatusCreated, bookResponse{Book: created})
}

// Update handles PUT /books/{isbn}
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Param request body Input true "Book"
// @Success 200 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	in, err := DecodeInput(r.Body, false)
	if err != nil {
		h.writeError(w, r, err, isbn)
		return
	}

	updated, err := h.service.Update(r.Context(), isbn, in.Book(isbn))
	if err != nil {
		h.writeError(w, r, err, isbn)
		return
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: updated})
}

// Delete handles DELETE /books/{isbn}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if err := h.service.Delete(r.Context(), isbn); err != nil {
		h.writeError(w, r, err, isbn)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: deletedMessage})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, isbn string) {
	var validationErr *ValidationError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &validationErr):
		httpx.JSONError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &maxErr):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("There is no book with an isbn '%s'", isbn))
	case errors.Is(err, ErrConflict):
		httpx.JSONError(w, http.StatusConflict, fmt.Sprintf("There is already a book with an isbn '%s'", isbn))
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": httpx.RequestIDFrom(r),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("book request failed")
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
