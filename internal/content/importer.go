package content

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	"github.com/goliatone/go-portfolio/internal/identity"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/validation"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	// PostsDir holds Markdown posts inside the content directory.
	PostsDir = "posts"
	// CaseStudiesDir holds Markdown case studies inside the content directory.
	CaseStudiesDir = "case-studies"
)

var (
	ErrSourceRequired = errors.New("content importer: document source is required")
	ErrSlugMissing    = errors.New("content importer: front matter slug is required")
	ErrDuplicateSlug  = errors.New("content importer: slug defined by more than one document")
)

// DocumentSource loads parsed Markdown documents from a directory.
type DocumentSource interface {
	LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error)
}

// SyncOptions controls a directory sync.
type SyncOptions struct {
	// DryRun reports what would change without writing.
	DryRun bool
	// DeleteOrphaned removes imported records whose source file is gone.
	// Records created through the API are never touched.
	DeleteOrphaned bool
}

// SyncResult summarises a sync run.
type SyncResult struct {
	Created int     `json:"created"`
	Updated int     `json:"updated"`
	Skipped int     `json:"skipped"`
	Deleted int     `json:"deleted"`
	Errors  []error `json:"-"`
}

// Err joins every document error, or returns nil.
func (r *SyncResult) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Errors...)
}

type ImporterConfig struct {
	Source      DocumentSource
	Posts       posts.Service
	CaseStudies casestudies.Service
	Validator   *validation.Validator
	Logger      interfaces.Logger
}

// Importer turns Markdown files into posts and case studies.
type Importer struct {
	source    DocumentSource
	posts     posts.Service
	studies   casestudies.Service
	validator *validation.Validator
	logger    interfaces.Logger
}

func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		source:    cfg.Source,
		posts:     cfg.Posts,
		studies:   cfg.CaseStudies,
		validator: cfg.Validator,
		logger:    logger,
	}
}

// SyncDirectory imports every document under dir. Documents under a "posts"
// directory become posts, documents under "case-studies" become case studies
// and anything else is skipped. Per-document failures are collected in the
// result; the returned error is only set when the run itself could not start.
func (i *Importer) SyncDirectory(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error) {
	if i.source == nil {
		return nil, ErrSourceRequired
	}
	started := time.Now()

	docs, err := i.source.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("content importer: load %s: %w", dir, err)
	}

	result := &SyncResult{}
	seen := map[string]map[string]string{
		validation.KindPost:      {},
		validation.KindCaseStudy: {},
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		kind := documentKind(doc.FilePath)
		if kind == "" || !i.handles(kind) {
			result.Skipped++
			continue
		}

		logger := logging.WithDocumentContext(i.logger, doc.FilePath, kind)
		if strings.TrimSpace(doc.FrontMatter.Slug) == "" {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, ErrSlugMissing))
			continue
		}
		// Stored slugs are normalised by the services, so duplicate and
		// orphan checks compare the same form.
		slugValue, err := posts.NormalizeSlug(doc.FrontMatter.Slug)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
			continue
		}
		if previous, dup := seen[kind][slugValue]; dup {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w (also %s)", doc.FilePath, ErrDuplicateSlug, previous))
			continue
		}
		seen[kind][slugValue] = doc.FilePath

		if i.validator != nil {
			if err := i.validator.ValidateFrontMatter(kind, doc.FrontMatter.Raw); err != nil {
				logger.Warn("content.sync.invalid", "error", err)
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
				continue
			}
		}

		var outcome syncOutcome
		switch kind {
		case validation.KindPost:
			outcome, err = i.syncPost(ctx, doc, slugValue, opts)
		case validation.KindCaseStudy:
			outcome, err = i.syncCaseStudy(ctx, doc, slugValue, opts)
		}
		if err != nil {
			logger.Error("content.sync.failed", "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
			continue
		}
		result.record(outcome)
		logger.Debug("content.sync.document", "outcome", string(outcome), "slug", slugValue)
	}

	if opts.DeleteOrphaned {
		i.deleteOrphaned(ctx, seen, opts, result)
	}

	i.logger.Info("content.sync.completed",
		"dir", dir,
		"dry_run", opts.DryRun,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"errors", len(result.Errors),
		"duration", time.Since(started),
	)
	return result, nil
}

type syncOutcome string

const (
	outcomeCreated syncOutcome = "created"
	outcomeUpdated syncOutcome = "updated"
	outcomeSkipped syncOutcome = "skipped"
)

func (r *SyncResult) record(outcome syncOutcome) {
	switch outcome {
	case outcomeCreated:
		r.Created++
	case outcomeUpdated:
		r.Updated++
	default:
		r.Skipped++
	}
}

func (i *Importer) handles(kind string) bool {
	switch kind {
	case validation.KindPost:
		return i.posts != nil
	case validation.KindCaseStudy:
		return i.studies != nil
	}
	return false
}

func (i *Importer) syncPost(ctx context.Context, doc *interfaces.Document, slugValue string, opts SyncOptions) (syncOutcome, error) {
	fm := doc.FrontMatter
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := i.findPost(ctx, slugValue)
	if err != nil {
		return "", err
	}
	if existing != nil && checksum != "" && existing.Checksum == checksum {
		return outcomeSkipped, nil
	}
	outcome := outcomeCreated
	if existing != nil {
		outcome = outcomeUpdated
	}
	if opts.DryRun {
		return outcome, nil
	}

	_, err = i.posts.Upsert(ctx, posts.UpsertPostInput{
		ID:          identity.PostUUID(slugValue),
		Slug:        slugValue,
		Title:       fm.Title,
		Summary:     fm.Summary,
		Body:        string(doc.Body),
		Tags:        fm.Tags,
		Author:      fm.Author,
		Status:      documentStatus(fm, posts.StatusDraft, posts.StatusPublished),
		PublishedAt: publishedAt(fm),
		SourcePath:  doc.FilePath,
		Checksum:    checksum,
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (i *Importer) syncCaseStudy(ctx context.Context, doc *interfaces.Document, slugValue string, opts SyncOptions) (syncOutcome, error) {
	fm := doc.FrontMatter
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := i.findCaseStudy(ctx, slugValue)
	if err != nil {
		return "", err
	}
	if existing != nil && checksum != "" && existing.Checksum == checksum {
		return outcomeSkipped, nil
	}
	outcome := outcomeCreated
	if existing != nil {
		outcome = outcomeUpdated
	}
	if opts.DryRun {
		return outcome, nil
	}

	intro, sections := SplitSections(string(doc.Body))
	summary := strings.TrimSpace(fm.Summary)
	if summary == "" {
		summary = intro
	}

	_, err = i.studies.Upsert(ctx, casestudies.UpsertCaseStudyInput{
		ID:          identity.CaseStudyUUID(slugValue),
		Slug:        slugValue,
		Title:       fm.Title,
		Client:      stringValue(fm.Custom, "client"),
		Role:        stringValue(fm.Custom, "role"),
		Summary:     summary,
		Sections:    sections,
		Stack:       stringSlice(fm.Custom, "stack"),
		Featured:    boolValue(fm.Custom, "featured"),
		Position:    intValue(fm.Custom, "position"),
		Status:      documentStatus(fm, casestudies.StatusDraft, casestudies.StatusPublished),
		PublishedAt: publishedAt(fm),
		SourcePath:  doc.FilePath,
		Checksum:    checksum,
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (i *Importer) findPost(ctx context.Context, slugValue string) (*posts.Post, error) {
	record, err := i.posts.GetByID(ctx, identity.PostUUID(slugValue))
	if err == nil {
		return record, nil
	}
	if errors.Is(err, posts.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

func (i *Importer) findCaseStudy(ctx context.Context, slugValue string) (*casestudies.CaseStudy, error) {
	record, err := i.studies.GetByID(ctx, identity.CaseStudyUUID(slugValue))
	if err == nil {
		return record, nil
	}
	if errors.Is(err, casestudies.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

func (i *Importer) deleteOrphaned(ctx context.Context, seen map[string]map[string]string, opts SyncOptions, result *SyncResult) {
	if i.posts != nil {
		list, err := i.posts.List(ctx, posts.ListOptions{IncludeDrafts: true})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("content importer: list posts: %w", err))
		} else {
			for _, record := range list.Items {
				if record.SourcePath == "" {
					continue
				}
				if _, ok := seen[validation.KindPost][record.Slug]; ok {
					continue
				}
				if !opts.DryRun {
					if err := i.posts.Delete(ctx, record.ID); err != nil {
						result.Errors = append(result.Errors, fmt.Errorf("content importer: delete post %s: %w", record.Slug, err))
						continue
					}
				}
				result.Deleted++
			}
		}
	}

	if i.studies != nil {
		list, err := i.studies.List(ctx, casestudies.ListOptions{IncludeDrafts: true})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("content importer: list case studies: %w", err))
			return
		}
		for _, record := range list.Items {
			if record.SourcePath == "" {
				continue
			}
			if _, ok := seen[validation.KindCaseStudy][record.Slug]; ok {
				continue
			}
			if !opts.DryRun {
				if err := i.studies.Delete(ctx, record.ID); err != nil {
					result.Errors = append(result.Errors, fmt.Errorf("content importer: delete case study %s: %w", record.Slug, err))
					continue
				}
			}
			result.Deleted++
		}
	}
}

// documentKind maps a content path to a front matter kind using its closest
// recognised parent directory.
func documentKind(filePath string) string {
	dir := path.Dir(filePathToSlash(filePath))
	for dir != "." && dir != "/" && dir != "" {
		switch path.Base(dir) {
		case PostsDir:
			return validation.KindPost
		case CaseStudiesDir:
			return validation.KindCaseStudy
		}
		dir = path.Dir(dir)
	}
	return ""
}

func filePathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func documentStatus(fm interfaces.FrontMatter, draft, published string) string {
	if fm.Draft {
		return draft
	}
	if status := strings.TrimSpace(fm.Status); status != "" {
		return status
	}
	return published
}

func publishedAt(fm interfaces.FrontMatter) *time.Time {
	if fm.Date.IsZero() {
		return nil
	}
	t := fm.Date.UTC()
	return &t
}
