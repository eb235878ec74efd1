package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booksapi/internal/book"
	"booksapi/internal/httpx"
	"booksapi/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newRouter(t *testing.T, db Pinger, burst int) (*book.MockRepository, http.Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	logger := testutil.DiscardLogger()

	return repo, NewRouter(Deps{
		Books:          book.NewHTTPHandler(book.NewService(repo), logger),
		DB:             db,
		Logger:         logger,
		RateLimiter:    httpx.NewRateLimitMiddleware(ctx, 0.01, burst),
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxBodyBytes:   64,
	})
}

func TestRouter_Health(t *testing.T) {
	_, router := newRouter(t, fakePinger{}, 10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Ready(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		_, router := newRouter(t, fakePinger{}, 10)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("database down", func(t *testing.T) {
		_, router := newRouter(t, fakePinger{err: errors.New("refused")}, 10)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	_, router := newRouter(t, fakePinger{}, 10)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/authors", nil),
		httptest.NewRequest(http.MethodPatch, "/books/0691161518", nil),
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": {"message": "Not Found", "status": 404}, "message": "Not Found"}`, w.Body.String())
	}
}

func TestRouter_BookRoutesAreMounted(t *testing.T) {
	repo, router := newRouter(t, fakePinger{}, 10)
	repo.EXPECT().Delete(gomock.Any(), "0691161518").Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books/0691161518", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Book deleted"}`, w.Body.String())
}

func TestRouter_BodyLimit(t *testing.T) {
	_, router := newRouter(t, fakePinger{}, 10)
	body := `{"title": "` + strings.Repeat("x", 200) + `"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.NewRawRequest(http.MethodPost, "/books", body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	_, router := newRouter(t, fakePinger{}, 1)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
