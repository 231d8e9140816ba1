package casestudies

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewCaseStudyRepository(db *bun.DB) repository.Repository[*CaseStudy] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*CaseStudy]{
		NewRecord: func() *CaseStudy { return &CaseStudy{} },
		GetID: func(c *CaseStudy) uuid.UUID {
			return c.ID
		},
		SetID: func(c *CaseStudy, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *CaseStudy) string {
			return c.Slug
		},
	})
}

type BunCaseStudyRepository struct {
	repo repository.Repository[*CaseStudy]
}

func NewBunCaseStudyRepository(db *bun.DB) *BunCaseStudyRepository {
	return NewBunCaseStudyRepositoryWithCache(db, nil, nil)
}

func NewBunCaseStudyRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunCaseStudyRepository {
	base := NewCaseStudyRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunCaseStudyRepository{repo: base}
}

func (r *BunCaseStudyRepository) Create(ctx context.Context, record *CaseStudy) (*CaseStudy, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		if duplicateKey(err) {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("case study repository error: %w", err)
	}
	return created, nil
}

func (r *BunCaseStudyRepository) Update(ctx context.Context, record *CaseStudy) (*CaseStudy, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"slug",
			"title",
			"client",
			"role",
			"summary",
			"sections",
			"stack",
			"featured",
			"position",
			"status",
			"published_at",
			"source_path",
			"checksum",
			"updated_at",
		),
	)
	if err != nil {
		if duplicateKey(err) {
			return nil, ErrSlugExists
		}
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunCaseStudyRepository) GetByID(ctx context.Context, id uuid.UUID) (*CaseStudy, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunCaseStudyRepository) GetBySlug(ctx context.Context, slug string) (*CaseStudy, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "case_study", Key: slug}
	}
	return records[0], nil
}

func (r *BunCaseStudyRepository) List(ctx context.Context) ([]*CaseStudy, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("slug ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

func (r *BunCaseStudyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &CaseStudy{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return nil
}

func mapRepositoryError(err error, key string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "case_study", Key: key}
	}
	return fmt.Errorf("case study repository error: %w", err)
}

func duplicateKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
