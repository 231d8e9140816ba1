package casestudies

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// RouteCaseStudy is the link resolver route used for case study URLs.
const RouteCaseStudy = "case_study"

var (
	ErrNotFound      = errors.New("casestudies: case study not found")
	ErrSlugRequired  = errors.New("casestudies: slug is required")
	ErrSlugInvalid   = errors.New("casestudies: slug contains invalid characters")
	ErrSlugExists    = errors.New("casestudies: slug already exists")
	ErrTitleRequired = errors.New("casestudies: title is required")
)

type Service interface {
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	Get(ctx context.Context, slug string) (*CaseStudy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CaseStudy, error)
	Upsert(ctx context.Context, input UpsertCaseStudyInput) (*CaseStudy, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListOptions struct {
	FeaturedOnly  bool
	IncludeDrafts bool
	Limit         int
}

type ListResult struct {
	Items []*CaseStudy `json:"items"`
	Total int          `json:"total"`
}

type UpsertCaseStudyInput struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Client      string
	Role        string
	Summary     string
	Sections    []Section
	Stack       []string
	Featured    bool
	Position    int
	Status      string
	PublishedAt *time.Time
	SourcePath  string
	Checksum    string
}

func (in UpsertCaseStudyInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Length(1, 200)),
		validation.Field(&in.Client, validation.Length(0, 120)),
		validation.Field(&in.Position, validation.Min(0)),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&in.Sections, validation.Each(validation.By(func(value any) error {
			section, _ := value.(Section)
			if strings.TrimSpace(section.Heading) == "" {
				return validation.NewError("validation_section_heading", "section heading is required")
			}
			return nil
		}))),
	)
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

func WithRenderer(renderer interfaces.MarkdownRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

func WithLinkResolver(resolver interfaces.LinkResolver) ServiceOption {
	return func(s *service) {
		s.links = resolver
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	studies  CaseStudyRepository
	renderer interfaces.MarkdownRenderer
	links    interfaces.LinkResolver
	logger   interfaces.Logger
	now      func() time.Time
	id       func() uuid.UUID
}

func NewService(studies CaseStudyRepository, opts ...ServiceOption) Service {
	s := &service{
		studies: studies,
		logger:  logging.NoOp(),
		now:     time.Now,
		id:      uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns published case studies, featured entries first and then by
// ascending position.
func (s *service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	records, err := s.studies.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*CaseStudy, 0, len(records))
	for _, record := range records {
		if !opts.IncludeDrafts && !record.Published() {
			continue
		}
		if opts.FeaturedOnly && !record.Featured {
			continue
		}
		items = append(items, record)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Slug < b.Slug
	})

	total := len(items)
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	for _, record := range items {
		record.URL = s.resolveURL(record.Slug)
	}
	return &ListResult{Items: items, Total: total}, nil
}

// Get returns a published case study with every section rendered.
func (s *service) Get(ctx context.Context, slugValue string) (*CaseStudy, error) {
	key := strings.ToLower(strings.TrimSpace(slugValue))
	if key == "" {
		return nil, ErrSlugRequired
	}
	record, err := s.studies.GetBySlug(ctx, key)
	if err != nil {
		return nil, err
	}
	if !record.Published() {
		return nil, &NotFoundError{Resource: "case_study", Key: key}
	}

	if s.renderer != nil {
		for i := range record.Sections {
			html, err := s.renderer.RenderString(ctx, record.Sections[i].Body)
			if err != nil {
				return nil, err
			}
			record.Sections[i].HTML = html
		}
	}
	record.URL = s.resolveURL(record.Slug)
	return record, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CaseStudy, error) {
	return s.studies.GetByID(ctx, id)
}

func (s *service) Upsert(ctx context.Context, input UpsertCaseStudyInput) (*CaseStudy, error) {
	normalized, err := normalizeSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	input.Slug = normalized
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.lookup(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &CaseStudy{
		Slug:        input.Slug,
		Title:       input.Title,
		Client:      strings.TrimSpace(input.Client),
		Role:        strings.TrimSpace(input.Role),
		Summary:     strings.TrimSpace(input.Summary),
		Sections:    stripRendered(input.Sections),
		Stack:       append([]string(nil), input.Stack...),
		Featured:    input.Featured,
		Position:    input.Position,
		Status:      input.Status,
		PublishedAt: input.PublishedAt,
		SourcePath:  input.SourcePath,
		Checksum:    input.Checksum,
		UpdatedAt:   now,
	}
	if record.Status == StatusPublished && record.PublishedAt == nil {
		if existing != nil && existing.PublishedAt != nil {
			record.PublishedAt = existing.PublishedAt
		} else {
			record.PublishedAt = &now
		}
	}

	if existing == nil {
		record.ID = input.ID
		if record.ID == uuid.Nil {
			record.ID = s.id()
		}
		record.CreatedAt = now
		created, err := s.studies.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		s.logger.Info("case_study.created", "case_study_id", created.ID, "slug", created.Slug)
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := s.studies.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("case_study.updated", "case_study_id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.studies.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.studies.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("case_study.deleted", "case_study_id", id)
	return nil
}

func (s *service) lookup(ctx context.Context, input UpsertCaseStudyInput) (*CaseStudy, error) {
	if input.ID != uuid.Nil {
		record, err := s.studies.GetByID(ctx, input.ID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	record, err := s.studies.GetBySlug(ctx, input.Slug)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

func (s *service) resolveURL(slugValue string) string {
	if s.links == nil {
		return ""
	}
	url, err := s.links.Resolve(RouteCaseStudy, map[string]string{"slug": slugValue})
	if err != nil {
		s.logger.Warn("case_study.url.unresolved", "slug", slugValue, "error", err)
		return ""
	}
	return url
}

func normalizeSlug(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" || !slug.IsValid(normalized) {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

func stripRendered(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, section := range sections {
		out[i] = Section{Heading: strings.TrimSpace(section.Heading), Body: section.Body}
	}
	return out
}
