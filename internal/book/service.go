package book

import (
	"context"
	"errors"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every stored book.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create stores a new book. It returns ErrConflict when the ISBN is taken.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	_, err := s.repo.GetByISBN(ctx, b.ISBN)
	if err == nil {
		return Book{}, ErrConflict
	}
	if !errors.Is(err, ErrNotFound) {
		return Book{}, err
	}
	return s.repo.Create(ctx, b)
}

// Update replaces every field of the book except its ISBN.
func (s *Service) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	b.ISBN = isbn
	return s.repo.Update(ctx, isbn, b)
}

// Delete removes the book with the given ISBN.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}
