package posts

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// RoutePost is the link resolver route used for post URLs.
const RoutePost = "post"

// WordsPerMinute is the reading speed used for ReadingMinutes.
const WordsPerMinute = 200

var (
	ErrNotFound      = errors.New("posts: post not found")
	ErrSlugRequired  = errors.New("posts: slug is required")
	ErrSlugInvalid   = errors.New("posts: slug contains invalid characters")
	ErrSlugExists    = errors.New("posts: slug already exists")
	ErrTitleRequired = errors.New("posts: title is required")
)

// Service exposes the public blog use-cases.
type Service interface {
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	Get(ctx context.Context, slug string) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	Upsert(ctx context.Context, input UpsertPostInput) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListOptions filters and paginates List. Limit <= 0 returns every match.
type ListOptions struct {
	Tag           string
	Limit         int
	Offset        int
	IncludeDrafts bool
}

// ListResult is one page of posts plus the number of matches before paging.
type ListResult struct {
	Items []*Post `json:"items"`
	Total int     `json:"total"`
}

// UpsertPostInput creates or replaces a post. A zero ID looks the post up by
// slug and generates a new ID when none exists.
type UpsertPostInput struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Summary     string
	Body        string
	Tags        []string
	Author      string
	Status      string
	PublishedAt *time.Time
	SourcePath  string
	Checksum    string
}

func (in UpsertPostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Length(1, 200)),
		validation.Field(&in.Summary, validation.Length(0, 500)),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&in.Tags, validation.Each(validation.Required, validation.Length(1, 40))),
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

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRenderer sets the Markdown renderer used by Get.
func WithRenderer(renderer interfaces.MarkdownRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

// WithLinkResolver sets the resolver used to fill Post.URL.
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
	posts    PostRepository
	renderer interfaces.MarkdownRenderer
	links    interfaces.LinkResolver
	logger   interfaces.Logger
	now      func() time.Time
	id       IDGenerator
}

func NewService(posts PostRepository, opts ...ServiceOption) Service {
	s := &service{
		posts:  posts,
		logger: logging.NoOp(),
		now:    time.Now,
		id:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns published posts newest first, optionally filtered by tag.
func (s *service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	records, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	tag := strings.ToLower(strings.TrimSpace(opts.Tag))
	matches := make([]*Post, 0, len(records))
	for _, record := range records {
		if !opts.IncludeDrafts && !record.Published() {
			continue
		}
		if tag != "" && !hasTag(record.Tags, tag) {
			continue
		}
		matches = append(matches, record)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := sortTime(matches[i]), sortTime(matches[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matches[i].Slug < matches[j].Slug
	})

	result := &ListResult{Total: len(matches), Items: paginate(matches, opts.Offset, opts.Limit)}
	for _, record := range result.Items {
		record.URL = s.resolveURL(record.Slug)
	}
	return result, nil
}

// Get returns a published post with BodyHTML rendered and URL resolved.
func (s *service) Get(ctx context.Context, slugValue string) (*Post, error) {
	key := strings.ToLower(strings.TrimSpace(slugValue))
	if key == "" {
		return nil, ErrSlugRequired
	}
	record, err := s.posts.GetBySlug(ctx, key)
	if err != nil {
		return nil, err
	}
	if !record.Published() {
		return nil, &NotFoundError{Resource: "post", Key: key}
	}

	if s.renderer != nil {
		html, err := s.renderer.RenderString(ctx, record.Body)
		if err != nil {
			return nil, err
		}
		record.BodyHTML = html
	}
	record.URL = s.resolveURL(record.Slug)
	return record, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Upsert validates input, normalises the slug and creates or updates the post.
func (s *service) Upsert(ctx context.Context, input UpsertPostInput) (*Post, error) {
	normalized, err := NormalizeSlug(input.Slug)
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
	record := &Post{
		Slug:           input.Slug,
		Title:          input.Title,
		Summary:        strings.TrimSpace(input.Summary),
		Body:           input.Body,
		Tags:           normalizeTags(input.Tags),
		Author:         strings.TrimSpace(input.Author),
		Status:         input.Status,
		PublishedAt:    input.PublishedAt,
		ReadingMinutes: ReadingMinutes(input.Body),
		SourcePath:     input.SourcePath,
		Checksum:       input.Checksum,
		UpdatedAt:      now,
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
		created, err := s.posts.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		s.logger.Info("post.created", "post_id", created.ID, "slug", created.Slug)
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("post.updated", "post_id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.posts.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post.deleted", "post_id", id)
	return nil
}

func (s *service) lookup(ctx context.Context, input UpsertPostInput) (*Post, error) {
	if input.ID != uuid.Nil {
		record, err := s.posts.GetByID(ctx, input.ID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	record, err := s.posts.GetBySlug(ctx, input.Slug)
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
	url, err := s.links.Resolve(RoutePost, map[string]string{"slug": slugValue})
	if err != nil {
		s.logger.Warn("post.url.unresolved", "slug", slugValue, "error", err)
		return ""
	}
	return url
}

// NormalizeSlug trims, lowercases and normalises value with go-slug.
func NormalizeSlug(value string) (string, error) {
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

// ReadingMinutes estimates reading time at WordsPerMinute, never below one.
func ReadingMinutes(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, candidate := range tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

func sortTime(p *Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func paginate(items []*Post, offset, limit int) []*Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*Post{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
