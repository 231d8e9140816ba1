package casestudies

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryCaseStudyRepository is an in-process store used by tests and the
// memory storage driver.
type MemoryCaseStudyRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*CaseStudy
	bySlug map[string]uuid.UUID
}

func NewMemoryCaseStudyRepository() *MemoryCaseStudyRepository {
	return &MemoryCaseStudyRepository{
		byID:   make(map[uuid.UUID]*CaseStudy),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (m *MemoryCaseStudyRepository) Create(_ context.Context, record *CaseStudy) (*CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.bySlug[record.Slug]; taken {
		return nil, ErrSlugExists
	}
	cloned := cloneCaseStudy(record)
	m.byID[cloned.ID] = cloned
	m.bySlug[cloned.Slug] = cloned.ID
	return cloneCaseStudy(cloned), nil
}

func (m *MemoryCaseStudyRepository) Update(_ context.Context, record *CaseStudy) (*CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "case_study", Key: record.ID.String()}
	}
	if owner, taken := m.bySlug[record.Slug]; taken && owner != record.ID {
		return nil, ErrSlugExists
	}
	delete(m.bySlug, existing.Slug)

	cloned := cloneCaseStudy(record)
	m.byID[cloned.ID] = cloned
	m.bySlug[cloned.Slug] = cloned.ID
	return cloneCaseStudy(cloned), nil
}

func (m *MemoryCaseStudyRepository) GetByID(_ context.Context, id uuid.UUID) (*CaseStudy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "case_study", Key: id.String()}
	}
	return cloneCaseStudy(record), nil
}

func (m *MemoryCaseStudyRepository) GetBySlug(_ context.Context, slug string) (*CaseStudy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "case_study", Key: slug}
	}
	return cloneCaseStudy(m.byID[id]), nil
}

func (m *MemoryCaseStudyRepository) List(_ context.Context) ([]*CaseStudy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*CaseStudy, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, cloneCaseStudy(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryCaseStudyRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "case_study", Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}
