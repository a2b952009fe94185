package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/api/metrics"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger}
}

func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores book, generating an opaque id when the client sent none.
func (s *BookService) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if strings.TrimSpace(book.ID) == "" {
		book.ID = newBookID()
	}

	if err := s.repo.Create(ctx, book); err != nil {
		s.logger.Error().Err(err).Str("book_id", book.ID).Msg("failed to create book")
		return nil, err
	}

	metrics.BookOperationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("book_id", book.ID).Msg("book created")
	return book, nil
}

// Update replaces the stored book. The stored id always wins over any id in
// the payload.
func (s *BookService) Update(ctx context.Context, id string, book *domain.Book) error {
	book.ID = id
	if err := s.repo.Replace(ctx, id, book); err != nil {
		return err
	}

	metrics.BookOperationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("book_id", id).Msg("book updated")
	return nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.BookOperationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("book_id", id).Msg("book deleted")
	return nil
}

// newBookID returns a 32 character hex identifier.
func newBookID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
