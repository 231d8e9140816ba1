package casestudies

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CaseStudyRepository abstracts storage for case studies.
type CaseStudyRepository interface {
	Create(ctx context.Context, record *CaseStudy) (*CaseStudy, error)
	Update(ctx context.Context, record *CaseStudy) (*CaseStudy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CaseStudy, error)
	GetBySlug(ctx context.Context, slug string) (*CaseStudy, error)
	List(ctx context.Context) ([]*CaseStudy, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
