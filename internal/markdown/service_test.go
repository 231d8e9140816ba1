package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, Config{BasePath: "testdata/content", Recursive: true}, nil)

	doc, err := svc.Load(context.Background(), "posts/hello-world.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", doc.FrontMatter.Slug)
	}
	if !strings.Contains(string(doc.BodyHTML), "<h1>Hello World</h1>") {
		t.Fatalf("expected rendered body, got %q", doc.BodyHTML)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
}

func TestServiceLoadDirectoryRecursive(t *testing.T) {
	svc := newTestService(t, Config{BasePath: "testdata/content", Recursive: true}, nil)

	docs, err := svc.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	want := []string{
		"case-studies/checkout-rewrite.md",
		"posts/draft-notes.md",
		"posts/hello-world.md",
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.FilePath != want[i] {
			t.Fatalf("doc %d: expected %s, got %s", i, want[i], doc.FilePath)
		}
		if len(doc.BodyHTML) == 0 {
			t.Fatalf("expected BodyHTML for %s", doc.FilePath)
		}
	}
}

func TestServiceLoadDirectoryNonRecursive(t *testing.T) {
	fsys := fstest.MapFS{
		"top.md":        {Data: []byte("# Top"), ModTime: time.Unix(0, 0)},
		"nested/sub.md": {Data: []byte("# Sub"), ModTime: time.Unix(0, 0)},
		"notes.txt":     {Data: []byte("ignored")},
	}
	svc := newTestService(t, Config{}, nil, WithFS(fsys))

	docs, err := svc.LoadDirectory(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || docs[0].FilePath != "top.md" {
		t.Fatalf("expected only top.md, got %v", docs)
	}
}

func TestServiceRejectsEscapingPaths(t *testing.T) {
	svc := newTestService(t, Config{}, nil, WithFS(fstest.MapFS{}))
	if _, err := svc.Load(context.Background(), "../secret.md"); err == nil {
		t.Fatal("expected error for path outside content root")
	}
}

func TestServiceRenderHonoursCancellation(t *testing.T) {
	svc := newTestService(t, Config{}, nil, WithFS(fstest.MapFS{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Render(ctx, []byte("# x"), interfaces.ParseOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceRenderStringUsesDefaults(t *testing.T) {
	svc := newTestService(t, Config{Parser: interfaces.ParseOptions{Sanitize: true}}, nil, WithFS(fstest.MapFS{}))

	html, err := svc.RenderString(context.Background(), "ok <script>x</script>")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("expected sanitised output, got %q", html)
	}
}

func TestServiceRenderDocumentNil(t *testing.T) {
	svc := newTestService(t, Config{}, nil, WithFS(fstest.MapFS{}))
	if _, err := svc.RenderDocument(context.Background(), nil, interfaces.ParseOptions{}); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

func TestNewServiceMissingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: "testdata/does-not-exist"}, nil); err == nil {
		t.Fatal("expected error for missing base path")
	}
}

func newTestService(t *testing.T, cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) *Service {
	t.Helper()
	svc, err := NewService(cfg, parser, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}
