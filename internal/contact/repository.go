package contact

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubmissionRepository persists contact submissions. Submissions are append
// only.
type SubmissionRepository interface {
	Create(ctx context.Context, record *Submission) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
}

type MemorySubmissionRepository struct {
	mu      sync.RWMutex
	records []*Submission
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

func (m *MemorySubmissionRepository) Create(_ context.Context, record *Submission) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *record
	m.records = append(m.records, &stored)
	out := stored
	return &out, nil
}

// List returns submissions oldest first.
func (m *MemorySubmissionRepository) List(_ context.Context) ([]*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Submission, 0, len(m.records))
	for _, record := range m.records {
		cloned := *record
		out = append(out, &cloned)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type BunSubmissionRepository struct {
	repo repository.Repository[*Submission]
}

func NewBunSubmissionRepository(db *bun.DB) *BunSubmissionRepository {
	return &BunSubmissionRepository{
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*Submission]{
			NewRecord: func() *Submission { return &Submission{} },
			GetID: func(s *Submission) uuid.UUID {
				return s.ID
			},
			SetID: func(s *Submission, id uuid.UUID) {
				s.ID = id
			},
			GetIdentifier: func() string {
				return "id"
			},
			GetIdentifierValue: func(s *Submission) string {
				return s.ID.String()
			},
		}),
	}
}

func (r *BunSubmissionRepository) Create(ctx context.Context, record *Submission) (*Submission, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("contact repository error: %w", err)
	}
	return created, nil
}

func (r *BunSubmissionRepository) List(ctx context.Context) ([]*Submission, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("contact repository error: %w", err)
	}
	return records, nil
}
