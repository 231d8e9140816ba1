package testimonials

import (
	"context"
	"fmt"
	"sort"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type TestimonialRepository interface {
	Create(ctx context.Context, record *Testimonial) (*Testimonial, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	List(ctx context.Context) ([]*Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("testimonial %q not found", e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type MemoryTestimonialRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Testimonial
}

func NewMemoryTestimonialRepository() *MemoryTestimonialRepository {
	return &MemoryTestimonialRepository{records: make(map[uuid.UUID]*Testimonial)}
}

func (m *MemoryTestimonialRepository) Create(_ context.Context, record *Testimonial) (*Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := *record
	m.records[cloned.ID] = &cloned
	out := cloned
	return &out, nil
}

func (m *MemoryTestimonialRepository) GetByID(_ context.Context, id uuid.UUID) (*Testimonial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	out := *record
	return &out, nil
}

func (m *MemoryTestimonialRepository) List(_ context.Context) ([]*Testimonial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Testimonial, 0, len(m.records))
	for _, record := range m.records {
		cloned := *record
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *MemoryTestimonialRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

// BunTestimonialRepository stores testimonials through go-repository-bun.
type BunTestimonialRepository struct {
	repo repository.Repository[*Testimonial]
}

func NewBunTestimonialRepository(db *bun.DB) *BunTestimonialRepository {
	return &BunTestimonialRepository{
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*Testimonial]{
			NewRecord: func() *Testimonial { return &Testimonial{} },
			GetID: func(t *Testimonial) uuid.UUID {
				return t.ID
			},
			SetID: func(t *Testimonial, id uuid.UUID) {
				t.ID = id
			},
			GetIdentifier: func() string {
				return "id"
			},
			GetIdentifierValue: func(t *Testimonial) string {
				return t.ID.String()
			},
		}),
	}
}

func (r *BunTestimonialRepository) Create(ctx context.Context, record *Testimonial) (*Testimonial, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("testimonial repository error: %w", err)
	}
	return created, nil
}

func (r *BunTestimonialRepository) GetByID(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, fmt.Errorf("testimonial repository error: %w", err)
	}
	return record, nil
}

func (r *BunTestimonialRepository) List(ctx context.Context) ([]*Testimonial, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("testimonial repository error: %w", err)
	}
	return records, nil
}

func (r *BunTestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Testimonial{ID: id}); err != nil {
		return fmt.Errorf("testimonial repository error: %w", err)
	}
	return nil
}
