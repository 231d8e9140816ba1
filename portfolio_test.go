package portfolio_test

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	portfolio "github.com/goliatone/go-portfolio"
)

func TestRender(t *testing.T) {
	got := portfolio.Render("# Title\n\nSome *text*.")
	want := "<h1>Title</h1>\n<p>Some <em>text</em>.</p>"
	if got != want {
		t.Fatalf("unexpected html:\nwant %q\ngot  %q", want, got)
	}
}

func TestConfigValidateRejectsUnknownEngine(t *testing.T) {
	cfg := portfolio.DefaultConfig()
	cfg.Markdown.Engine = "pandoc"
	if err := cfg.Validate(); !errors.Is(err, portfolio.ErrMarkdownEngineUnknown) {
		t.Fatalf("expected ErrMarkdownEngineUnknown, got %v", err)
	}
}

func TestConfigValidateRequiresDSNForSQL(t *testing.T) {
	cfg := portfolio.DefaultConfig()
	cfg.Storage.Driver = "postgres"
	if err := cfg.Validate(); !errors.Is(err, portfolio.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestModuleSyncAndServe(t *testing.T) {
	cfg := portfolio.DefaultConfig()
	cfg.Features.Logger = false
	files := fstest.MapFS{
		"case-studies/checkout.md": {Data: []byte(`---
title: Checkout Rewrite
slug: checkout-rewrite
client: Acme
featured: true
---
## Problem

Carts were abandoned.
`)},
	}

	module, err := portfolio.New(context.Background(), cfg, portfolio.WithContentFS(files))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer module.Close()

	result, err := module.Sync(context.Background(), portfolio.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("expected one created document, got %+v", result)
	}

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/case-studies/checkout-rewrite", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetMigrationsFS(t *testing.T) {
	for _, dir := range []string{"migrations/sqlite", "migrations/postgres"} {
		entries, err := fs.ReadDir(portfolio.GetMigrationsFS(), dir)
		if err != nil {
			t.Fatalf("read %s: %v", dir, err)
		}
		if len(entries) == 0 {
			t.Fatalf("expected migrations in %s", dir)
		}
	}
}
