package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryPostRepositoryCRUD(t *testing.T) {
	repo := NewMemoryPostRepository()
	ctx := context.Background()

	record := &Post{ID: uuid.New(), Slug: "hello-world", Title: "Hello", Tags: []string{"go"}}
	created, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Tags[0] = "mutated"
	fetched, err := repo.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.Tags[0] != "go" {
		t.Fatalf("expected stored tags to be isolated, got %v", fetched.Tags)
	}

	if _, err := repo.Create(ctx, &Post{ID: uuid.New(), Slug: "hello-world"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	fetched.Slug = "hello-again"
	if _, err := repo.Update(ctx, fetched); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "hello-world"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old slug to be released, got %v", err)
	}

	if err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound *NotFoundError
	if _, err := repo.GetByID(ctx, record.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := repo.Delete(ctx, record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryPostRepositoryListSortedBySlug(t *testing.T) {
	repo := NewMemoryPostRepository()
	ctx := context.Background()
	for _, slug := range []string{"charlie", "alpha", "bravo"} {
		if _, err := repo.Create(ctx, &Post{ID: uuid.New(), Slug: slug}); err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{records[0].Slug, records[1].Slug, records[2].Slug}
	want := []string{"alpha", "bravo", "charlie"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
