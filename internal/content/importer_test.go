package content_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	"github.com/goliatone/go-portfolio/internal/content"
	"github.com/goliatone/go-portfolio/internal/identity"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/validation"
)

const helloWorld = `---
title: Hello World
slug: hello-world
tags:
  - go
date: 2024-03-01T08:00:00Z
---
Welcome to the **new** blog.
`

const draftNotes = `---
title: Draft Notes
slug: draft-notes
draft: true
---
Work in progress.
`

const checkoutRewrite = `---
title: Checkout Rewrite
slug: checkout-rewrite
client: Acme Retail
stack:
  - go
  - postgres
featured: true
position: 1
---
Intro paragraph.

## Challenge

Timeouts under load.

## Outcome

Conversion went up.
`

type fixture struct {
	fs       fstest.MapFS
	importer *content.Importer
	posts    posts.Service
	studies  casestudies.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	files := fstest.MapFS{
		"posts/hello-world.md":             {Data: []byte(helloWorld), ModTime: time.Unix(0, 0)},
		"posts/draft-notes.md":             {Data: []byte(draftNotes), ModTime: time.Unix(0, 0)},
		"case-studies/checkout-rewrite.md": {Data: []byte(checkoutRewrite), ModTime: time.Unix(0, 0)},
		"about.md":                         {Data: []byte("# About"), ModTime: time.Unix(0, 0)},
	}
	source, err := markdown.NewService(markdown.Config{Recursive: true}, nil, markdown.WithFS(files))
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	validator, err := validation.NewValidator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	postSvc := posts.NewService(posts.NewMemoryPostRepository(), posts.WithRenderer(source))
	studySvc := casestudies.NewService(casestudies.NewMemoryCaseStudyRepository(), casestudies.WithRenderer(source))
	return &fixture{
		fs:      files,
		posts:   postSvc,
		studies: studySvc,
		importer: content.NewImporter(content.ImporterConfig{
			Source:      source,
			Posts:       postSvc,
			CaseStudies: studySvc,
			Validator:   validator,
		}),
	}
}

func TestSyncDirectoryImportsDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Err() != nil {
		t.Fatalf("unexpected document errors: %v", result.Err())
	}
	if result.Created != 3 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	post, err := f.posts.Get(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if post.ID != identity.PostUUID("hello-world") {
		t.Fatalf("expected deterministic id, got %s", post.ID)
	}
	if post.BodyHTML != "<p>Welcome to the <strong>new</strong> blog.</p>" {
		t.Fatalf("unexpected body html %q", post.BodyHTML)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date from front matter, got %v", post.PublishedAt)
	}

	if _, err := f.posts.Get(ctx, "draft-notes"); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected draft to stay private, got %v", err)
	}

	study, err := f.studies.Get(ctx, "checkout-rewrite")
	if err != nil {
		t.Fatalf("get case study: %v", err)
	}
	if study.Client != "Acme Retail" || !study.Featured || study.Position != 1 || len(study.Stack) != 2 {
		t.Fatalf("unexpected case study %+v", study)
	}
	if study.Summary != "Intro paragraph." || len(study.Sections) != 2 || study.Sections[1].Heading != "Outcome" {
		t.Fatalf("unexpected sections %+v", study.Sections)
	}
}

func TestSyncDirectorySkipsUnchangedAndUpdatesChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	f.fs["posts/hello-world.md"].Data = []byte(helloWorld + "\nOne more line.\n")
	result, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 || result.Skipped != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSyncDirectoryDryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{DryRun: true})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("expected dry run to report 3 creations, got %+v", result)
	}
	list, err := f.posts.List(ctx, posts.ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("dry run stored %d posts", list.Total)
	}
}

func TestSyncDirectoryDeletesOrphanedImportsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if _, err := f.posts.Upsert(ctx, posts.UpsertPostInput{Slug: "api-post", Title: "From the API", Status: posts.StatusPublished}); err != nil {
		t.Fatalf("api upsert: %v", err)
	}

	delete(f.fs, "posts/draft-notes.md")
	result, err := f.importer.SyncDirectory(ctx, ".", content.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected one orphan deleted, got %+v", result)
	}
	if _, err := f.posts.Get(ctx, "api-post"); err != nil {
		t.Fatalf("api post should survive: %v", err)
	}
	if _, err := f.posts.GetByID(ctx, identity.PostUUID("draft-notes")); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected orphan to be removed, got %v", err)
	}
}

func TestSyncDirectoryCollectsInvalidFrontMatter(t *testing.T) {
	f := newFixture(t)
	f.fs["posts/bad.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Bad\nslug: Not A Slug\n---\nbody\n")}
	f.fs["posts/no-slug.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Missing\n---\nbody\n")}

	result, err := f.importer.SyncDirectory(context.Background(), ".", content.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 document errors, got %v", result.Errors)
	}
	if !errors.Is(result.Err(), validation.ErrSchemaValidation) || !errors.Is(result.Err(), content.ErrSlugMissing) {
		t.Fatalf("unexpected errors %v", result.Err())
	}
	if result.Created != 3 {
		t.Fatalf("valid documents should still import, got %+v", result)
	}
}

func TestImporterRequiresSource(t *testing.T) {
	importer := content.NewImporter(content.ImporterConfig{})
	if _, err := importer.SyncDirectory(context.Background(), ".", content.SyncOptions{}); !errors.Is(err, content.ErrSourceRequired) {
		t.Fatalf("expected ErrSourceRequired, got %v", err)
	}
}

func TestSyncDirectoryKeepsMixedCaseSlugsOnOrphanPass(t *testing.T) {
	files := fstest.MapFS{
		"posts/mixed.md": {Data: []byte("---\ntitle: Mixed\nslug: Hello-Mixed\n---\nbody\n")},
	}
	source, err := markdown.NewService(markdown.Config{Recursive: true}, nil, markdown.WithFS(files))
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	postSvc := posts.NewService(posts.NewMemoryPostRepository(), posts.WithRenderer(source))
	importer := content.NewImporter(content.ImporterConfig{Source: source, Posts: postSvc})
	ctx := context.Background()

	if _, err := importer.SyncDirectory(ctx, ".", content.SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	result, err := importer.SyncDirectory(ctx, ".", content.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Deleted != 0 {
		t.Fatalf("expected no orphans, got %+v", result)
	}
	post, err := postSvc.GetByID(ctx, identity.PostUUID("hello-mixed"))
	if err != nil {
		t.Fatalf("expected post keyed by normalised slug: %v", err)
	}
	if post.Slug != "hello-mixed" {
		t.Fatalf("expected normalised slug, got %q", post.Slug)
	}
}

func TestSyncDirectoryDetectsDuplicateSlugsAcrossCase(t *testing.T) {
	files := fstest.MapFS{
		"posts/a.md": {Data: []byte("---\ntitle: A\nslug: Same-Slug\n---\nbody\n")},
		"posts/b.md": {Data: []byte("---\ntitle: B\nslug: same-slug\n---\nbody\n")},
	}
	source, err := markdown.NewService(markdown.Config{Recursive: true}, nil, markdown.WithFS(files))
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	postSvc := posts.NewService(posts.NewMemoryPostRepository(), posts.WithRenderer(source))
	importer := content.NewImporter(content.ImporterConfig{Source: source, Posts: postSvc})

	result, err := importer.SyncDirectory(context.Background(), ".", content.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !errors.Is(result.Err(), content.ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug error, got %v", result.Err())
	}
	if result.Created != 1 {
		t.Fatalf("expected one import, got %+v", result)
	}
}
