package markdowncmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/content"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type syncCall struct {
	directory string
	options   content.SyncOptions
}

type stubSyncer struct {
	calls  []syncCall
	result *content.SyncResult
	err    error
}

func (s *stubSyncer) SyncDirectory(_ context.Context, dir string, opts content.SyncOptions) (*content.SyncResult, error) {
	s.calls = append(s.calls, syncCall{directory: dir, options: opts})
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type recordingParser struct {
	options []interfaces.ParseOptions
}

func (p *recordingParser) Parse(src []byte) ([]byte, error) {
	return p.ParseWithOptions(src, interfaces.ParseOptions{})
}

func (p *recordingParser) ParseWithOptions(src []byte, opts interfaces.ParseOptions) ([]byte, error) {
	p.options = append(p.options, opts)
	return []byte("<p>" + strings.TrimSpace(string(src)) + "</p>"), nil
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func enabled() bool { return true }

func TestRenderHandlerWritesResult(t *testing.T) {
	parser := markdown.NewConverter(markdown.Options{})
	handler := NewRenderHandler(parser, nil, FeatureGates{})

	result := &RenderResult{}
	cmd := RenderMarkdownCommand{Source: "# Hello\n\nworld", Result: result}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute render: %v", err)
	}
	if result.HTML != "<h1>Hello</h1>\n<p>world</p>" {
		t.Fatalf("unexpected html %q", result.HTML)
	}
}

func TestRenderHandlerPassesStrictAsSanitize(t *testing.T) {
	parser := &recordingParser{}
	handler := NewRenderHandler(parser, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), RenderMarkdownCommand{Source: "x", Strict: true}); err != nil {
		t.Fatalf("execute render: %v", err)
	}
	if len(parser.options) != 1 || !parser.options[0].Sanitize {
		t.Fatalf("expected sanitize option, got %#v", parser.options)
	}
}

func TestRenderHandlerPreviewDisabled(t *testing.T) {
	handler := NewRenderHandler(&recordingParser{}, nil, FeatureGates{
		PreviewEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), RenderMarkdownCommand{Source: "x"})
	if !errors.Is(err, ErrPreviewDisabled) {
		t.Fatalf("expected ErrPreviewDisabled, got %v", err)
	}
	if !goerrors.IsCategory(err, commands.CategoryFeatureDisabled) {
		t.Fatalf("expected feature disabled category, got %v", err)
	}
}

func TestRenderHandlerRejectsOversizedSource(t *testing.T) {
	parser := &recordingParser{}
	handler := NewRenderHandler(parser, nil, FeatureGates{})

	cmd := RenderMarkdownCommand{Source: strings.Repeat("a", MaxRenderSourceBytes+1)}
	err := handler.Execute(context.Background(), cmd)
	if !goerrors.IsCategory(err, commands.CategoryPayloadTooLarge) {
		t.Fatalf("expected payload too large category, got %v", err)
	}
	if !errors.Is(err, commands.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if len(parser.options) != 0 {
		t.Fatal("expected parser not to run")
	}
}

func TestSyncHandlerInvokesSyncer(t *testing.T) {
	syncer := &stubSyncer{result: &content.SyncResult{Created: 2, Updated: 1, Skipped: 4}}
	logger := &captureLogger{}
	handler := NewSyncHandler(syncer, logger, FeatureGates{SyncEnabled: enabled})

	result := &content.SyncResult{}
	cmd := SyncContentCommand{Directory: "content", DryRun: true, DeleteOrphaned: true, Result: result}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute sync: %v", err)
	}

	if len(syncer.calls) != 1 {
		t.Fatalf("expected one sync call, got %d", len(syncer.calls))
	}
	call := syncer.calls[0]
	if call.directory != "content" {
		t.Fatalf("expected directory content, got %q", call.directory)
	}
	if !call.options.DryRun || !call.options.DeleteOrphaned {
		t.Fatalf("expected options forwarded, got %#v", call.options)
	}
	if result.Created != 2 || result.Updated != 1 || result.Skipped != 4 {
		t.Fatalf("expected result copied, got %#v", result)
	}

	found := false
	for _, msg := range logger.infoMessages {
		if msg == "content.command.sync_directory.completed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected completion log, got %v", logger.infoMessages)
	}

	var summary map[string]any
	for _, fields := range logger.fields {
		if _, ok := fields["created_count"]; ok {
			summary = fields
		}
	}
	if summary == nil || summary["created_count"] != 2 {
		t.Fatalf("expected summary fields, got %v", logger.fields)
	}
}

func TestSyncHandlerFeatureDisabled(t *testing.T) {
	syncer := &stubSyncer{}
	handler := NewSyncHandler(syncer, nil, FeatureGates{
		SyncEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), SyncContentCommand{Directory: "content"})
	if !errors.Is(err, ErrSyncDisabled) {
		t.Fatalf("expected ErrSyncDisabled, got %v", err)
	}
	if !goerrors.IsCategory(err, commands.CategoryFeatureDisabled) {
		t.Fatalf("expected feature disabled category, got %v", err)
	}
	if len(syncer.calls) != 0 {
		t.Fatal("expected syncer not to run")
	}
}

func TestSyncHandlerWrapsSyncerError(t *testing.T) {
	syncer := &stubSyncer{err: errors.New("boom")}
	handler := NewSyncHandler(syncer, nil, FeatureGates{})

	err := handler.Execute(context.Background(), SyncContentCommand{Directory: "content"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSyncHandlerValidationFailure(t *testing.T) {
	syncer := &stubSyncer{}
	handler := NewSyncHandler(syncer, nil, FeatureGates{})

	err := handler.Execute(context.Background(), SyncContentCommand{Directory: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(syncer.calls) != 0 {
		t.Fatal("expected syncer not to run")
	}
}
