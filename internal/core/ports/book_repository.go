package ports

import (
	"context"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// BookRepository persists books. Replace and Delete act only on an existing
// id and return domain.ErrBookNotFound when nothing matched.
type BookRepository interface {
	List(ctx context.Context) ([]*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) error
	Replace(ctx context.Context, id string, book *domain.Book) error
	Delete(ctx context.Context, id string) error
}

// BookService defines the book CRUD use cases.
type BookService interface {
	List(ctx context.Context) ([]*domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, id string, book *domain.Book) error
	Delete(ctx context.Context, id string) error
}
