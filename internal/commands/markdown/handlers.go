package markdowncmd

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/content"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	renderOperation = "markdown.render"
	syncOperation   = "content.sync_directory"

	renderTimeout = 5 * time.Second
)

var (
	ErrPreviewDisabled = errors.New("markdown command: preview disabled")
	ErrSyncDisabled    = errors.New("markdown command: content sync disabled")
)

var (
	_ command.Commander[RenderMarkdownCommand] = (*RenderHandler)(nil)
	_ command.Commander[SyncContentCommand]    = (*SyncHandler)(nil)
)

// Syncer imports a directory of Markdown documents.
type Syncer interface {
	SyncDirectory(ctx context.Context, dir string, opts content.SyncOptions) (*content.SyncResult, error)
}

// RenderHandler renders Markdown through the configured parser.
type RenderHandler struct {
	inner *commands.Handler[RenderMarkdownCommand]
}

func NewRenderHandler(parser interfaces.MarkdownParser, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenderMarkdownCommand]) *RenderHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RenderMarkdownCommand) error {
		if !gates.previewEnabled() {
			return commands.FeatureDisabled("markdown preview", ErrPreviewDisabled)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		html, err := parser.ParseWithOptions([]byte(msg.Source), interfaces.ParseOptions{Sanitize: msg.Strict})
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result.HTML = string(html)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderMarkdownCommand]{
		commands.WithLogger[RenderMarkdownCommand](baseLogger),
		commands.WithOperation[RenderMarkdownCommand](renderOperation),
		commands.WithTimeout[RenderMarkdownCommand](renderTimeout),
		commands.WithMessageFields(func(msg RenderMarkdownCommand) map[string]any {
			return map[string]any{
				"source_bytes": len(msg.Source),
				"strict":       msg.Strict,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *RenderHandler) Execute(ctx context.Context, msg RenderMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncHandler runs content directory syncs.
type SyncHandler struct {
	inner *commands.Handler[SyncContentCommand]
}

func NewSyncHandler(syncer Syncer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncContentCommand]) *SyncHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncContentCommand) error {
		if !gates.syncEnabled() {
			return commands.FeatureDisabled("content sync", ErrSyncDisabled)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := syncer.SyncDirectory(ctx, msg.Directory, content.SyncOptions{
			DryRun:         msg.DryRun,
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}
		if msg.Result != nil {
			*msg.Result = *result
		}
		logging.WithFields(baseLogger, map[string]any{
			"created_count":   result.Created,
			"updated_count":   result.Updated,
			"deleted_count":   result.Deleted,
			"skipped_count":   result.Skipped,
			"error_count":     len(result.Errors),
			"dry_run":         msg.DryRun,
			"delete_orphaned": msg.DeleteOrphaned,
		}).Info("content.command.sync_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncContentCommand]{
		commands.WithLogger[SyncContentCommand](baseLogger),
		commands.WithOperation[SyncContentCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncContentCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *SyncHandler) Execute(ctx context.Context, msg SyncContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
