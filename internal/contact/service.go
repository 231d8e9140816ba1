package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

var (
	ErrRateLimited   = errors.New("contact: too many submissions")
	ErrSpamDetected  = errors.New("contact: submission rejected as spam")
	ErrUnknownMailer = errors.New("contact: unknown mailer")
)

// RateLimitError reports how long the client should wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("contact: too many submissions, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// SubmitInput is the public contact form payload. Website is a honeypot that
// humans never see.
type SubmitInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Company    string `json:"company"`
	Website    string `json:"website"`
	RemoteAddr string `json:"-"`
	UserAgent  string `json:"-"`
}

func (in SubmitInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&in.Subject, validation.RuneLength(0, 200)),
		validation.Field(&in.Message, validation.Required, validation.RuneLength(10, 5000)),
		validation.Field(&in.Company, validation.RuneLength(0, 120)),
	)
}

// clientKey identifies the sender for rate limiting.
func (in SubmitInput) clientKey() string {
	if addr := strings.TrimSpace(in.RemoteAddr); addr != "" {
		return "addr:" + addr
	}
	return "email:" + strings.ToLower(strings.TrimSpace(in.Email))
}

type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Submission, error)
	// PruneLimiter drops idle rate limiter buckets and returns the count.
	PruneLimiter(idle time.Duration) int
	// TrackedClients reports how many clients hold a limiter bucket.
	TrackedClients() int
}

type Config struct {
	RateBurst        int
	RateInterval     time.Duration
	MaxLinks         int
	MaxRepeatedChars int
	BlockedKeywords  []string
	Recipients       []string
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
			s.limiter.now = clock
		}
	}
}

func WithMailer(mailer interfaces.Mailer) ServiceOption {
	return func(s *service) {
		if mailer != nil {
			s.mailer = mailer
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
	repo       SubmissionRepository
	limiter    *RateLimiter
	filter     SpamFilter
	mailer     interfaces.Mailer
	recipients []string
	logger     interfaces.Logger
	now        func() time.Time
}

func NewService(repo SubmissionRepository, cfg Config, opts ...ServiceOption) Service {
	s := &service{
		repo:    repo,
		limiter: NewRateLimiter(cfg.RateBurst, cfg.RateInterval),
		filter: SpamFilter{
			MaxLinks:         cfg.MaxLinks,
			MaxRepeatedChars: cfg.MaxRepeatedChars,
			BlockedKeywords:  cfg.BlockedKeywords,
		},
		mailer:     NoopMailer{},
		recipients: append([]string(nil), cfg.Recipients...),
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates, rate limits, filters and stores a submission, then
// notifies the configured recipients. Spam is stored but reported as
// ErrSpamDetected.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Submission, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if ok, retryAfter := s.limiter.Allow(input.clientKey()); !ok {
		s.logger.Warn("contact.rate_limited", "remote_addr", input.RemoteAddr, "retry_after", retryAfter)
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	record := &Submission{
		ID:         uuid.New(),
		Name:       input.Name,
		Email:      input.Email,
		Subject:    input.Subject,
		Message:    input.Message,
		Company:    strings.TrimSpace(input.Company),
		RemoteAddr: input.RemoteAddr,
		UserAgent:  input.UserAgent,
		Status:     StatusAccepted,
		CreatedAt:  s.now().UTC(),
	}
	if reason := s.filter.Check(input); reason != "" {
		record.Status = StatusRejectedSpam
		record.SpamReason = reason
	}

	stored, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if stored.Status == StatusRejectedSpam {
		s.logger.Warn("contact.spam", "submission_id", stored.ID, "reason", stored.SpamReason)
		return stored, ErrSpamDetected
	}

	s.logger.Info("contact.accepted", "submission_id", stored.ID)
	if err := s.mailer.Send(ctx, s.message(stored)); err != nil {
		s.logger.Error("contact.mail.failed", "submission_id", stored.ID, "error", err)
	}
	return stored, nil
}

func (s *service) PruneLimiter(idle time.Duration) int {
	return s.limiter.Prune(idle)
}

func (s *service) TrackedClients() int {
	return s.limiter.Len()
}

func (s *service) message(sub *Submission) interfaces.MailMessage {
	subject := sub.Subject
	if subject == "" {
		subject = "New contact from " + sub.Name
	}
	return interfaces.MailMessage{
		To:      s.recipients,
		ReplyTo: sub.Email,
		Subject: subject,
		Text:    sub.Message,
		Metadata: map[string]string{
			"submission_id": sub.ID.String(),
			"company":       sub.Company,
		},
	}
}
