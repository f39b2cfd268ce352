package service

import (
	"context"
	"fmt"

	"bookstore/internal/imageref"
	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// bookService implements BookService.
type bookService struct {
	bookRepo repository.BookRepository
	logger   zerolog.Logger
}

// NewBookService creates a new book service.
func NewBookService(bookRepo repository.BookRepository, logger zerolog.Logger) BookService {
	return &bookService{
		bookRepo: bookRepo,
		logger:   logger.With().Str("service", "book").Logger(),
	}
}

// GetAll retrieves books with pagination.
func (s *bookService) GetAll(ctx context.Context, limit, offset int) ([]model.Book, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	books, err := s.bookRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get books")
		return nil, fmt.Errorf("failed to get books: %w", err)
	}

	withImages(books)

	s.logger.Debug().
		Int("count", len(books)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved books")

	return books, nil
}

// GetByID retrieves a single book by ID.
func (s *bookService) GetByID(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		s.logger.Warn().Msg("book ID is empty")
		return nil, model.ErrBookNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("book_id", id).Msg("failed to get book by ID")
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if book == nil {
		s.logger.Debug().Str("book_id", id).Msg("book not found")
		return nil, model.ErrBookNotFound
	}

	book.Images = imageref.Normalize(book.RawImages)
	return book, nil
}

// withImages fills each book's Images from its stored encoding.
func withImages(books []model.Book) {
	for i := range books {
		books[i].Images = imageref.Normalize(books[i].RawImages)
	}
}
