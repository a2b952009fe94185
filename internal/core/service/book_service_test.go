package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

type stubBookRepo struct {
	books map[string]*domain.Book
	err   error
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) List(context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		clone := *b
		out = append(out, &clone)
	}
	return out, r.err
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.books[book.ID]; ok {
		return domain.ErrBookExists
	}
	clone := *book
	r.books[book.ID] = &clone
	return nil
}

func (r *stubBookRepo) Replace(_ context.Context, id string, book *domain.Book) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	clone := *book
	r.books[id] = &clone
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func TestBookService_Create_GeneratesID(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, zerolog.Nop())

	got, err := svc.Create(context.Background(), &domain.Book{Name: "Dune", Price: 9.5, Category: "SF", Author: "Herbert"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(got.ID) != 32 {
		t.Fatalf("expected 32 char id, got %q", got.ID)
	}
	if _, ok := repo.books[got.ID]; !ok {
		t.Fatalf("book not stored under %q", got.ID)
	}
}

func TestBookService_Create_KeepsClientID(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, zerolog.Nop())

	got, err := svc.Create(context.Background(), &domain.Book{ID: "abc", Name: "Dune"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got.ID != "abc" {
		t.Fatalf("expected id abc, got %q", got.ID)
	}

	if _, err := svc.Create(context.Background(), &domain.Book{ID: "abc", Name: "Emma"}); !errors.Is(err, domain.ErrBookExists) {
		t.Fatalf("expected ErrBookExists, got %v", err)
	}
}

func TestBookService_Update(t *testing.T) {
	repo := newStubBookRepo()
	repo.books["abc"] = &domain.Book{ID: "abc", Name: "Dune", Price: 9.5}
	svc := NewBookService(repo, zerolog.Nop())

	err := svc.Update(context.Background(), "abc", &domain.Book{ID: "other", Name: "Dune Messiah", Price: 11})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	stored := repo.books["abc"]
	if stored.ID != "abc" || stored.Name != "Dune Messiah" || stored.Price != 11 {
		t.Fatalf("unexpected stored book: %+v", stored)
	}
	if _, ok := repo.books["other"]; ok {
		t.Fatalf("payload id must not create a new book")
	}

	if err := svc.Update(context.Background(), "missing", &domain.Book{Name: "X"}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	if _, ok := repo.books["missing"]; ok {
		t.Fatalf("update must not upsert")
	}
}

func TestBookService_Delete(t *testing.T) {
	repo := newStubBookRepo()
	repo.books["abc"] = &domain.Book{ID: "abc"}
	svc := NewBookService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "abc"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound on second delete, got %v", err)
	}
}

func TestBookService_GetAndList(t *testing.T) {
	repo := newStubBookRepo()
	repo.books["abc"] = &domain.Book{ID: "abc", Name: "Dune"}
	svc := NewBookService(repo, zerolog.Nop())

	book, err := svc.Get(context.Background(), "abc")
	if err != nil || book.Name != "Dune" {
		t.Fatalf("unexpected Get result: %+v, %v", book, err)
	}
	if _, err := svc.Get(context.Background(), "zzz"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}

	books, err := svc.List(context.Background())
	if err != nil || len(books) != 1 {
		t.Fatalf("unexpected List result: %v, %v", books, err)
	}
}
