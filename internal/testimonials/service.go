package testimonials

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

var ErrNotFound = errors.New("testimonials: testimonial not found")

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Testimonial, error)
	Create(ctx context.Context, input CreateTestimonialInput) (*Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListOptions struct {
	FeaturedOnly bool
	Limit        int
}

type CreateTestimonialInput struct {
	Author   string
	Role     string
	Company  string
	Quote    string
	Rating   int
	Featured bool
	Position int
	// Hidden stores the testimonial without listing it.
	Hidden bool
}

func (in CreateTestimonialInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Author, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Quote, validation.Required, validation.Length(1, 2000)),
		validation.Field(&in.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&in.Position, validation.Min(0)),
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

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   TestimonialRepository
	logger interfaces.Logger
	now    func() time.Time
}

func NewService(repo TestimonialRepository, opts ...ServiceOption) Service {
	s := &service{repo: repo, logger: logging.NoOp(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns published testimonials ordered by position, then creation time.
func (s *service) List(ctx context.Context, opts ListOptions) ([]*Testimonial, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Testimonial, 0, len(records))
	for _, record := range records {
		if !record.Published || (opts.FeaturedOnly && !record.Featured) {
			continue
		}
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateTestimonialInput) (*Testimonial, error) {
	input.Author = strings.TrimSpace(input.Author)
	input.Quote = strings.TrimSpace(input.Quote)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	record := &Testimonial{
		ID:        uuid.New(),
		Author:    input.Author,
		Role:      strings.TrimSpace(input.Role),
		Company:   strings.TrimSpace(input.Company),
		Quote:     input.Quote,
		Rating:    input.Rating,
		Featured:  input.Featured,
		Position:  input.Position,
		Published: !input.Hidden,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("testimonial.created", "testimonial_id", created.ID, "author", created.Author)
	return created, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
