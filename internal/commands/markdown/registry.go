package markdowncmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// CommandRegistry mirrors the registry contract used by go-command dispatchers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar wires a handler into a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers constructed for the markdown module.
type HandlerSet struct {
	Render *RenderHandler
	Sync   *SyncHandler
}

// Config carries the collaborators needed to build the markdown handlers.
type Config struct {
	Parser    interfaces.MarkdownParser
	Syncer    Syncer
	Provider  interfaces.LoggerProvider
	Gates     FeatureGates
	Observers []commands.Observer
}

// RegisterMarkdownCommands builds the render and sync handlers and registers
// them with the registry when one is supplied. A nil Syncer skips the sync
// handler.
func RegisterMarkdownCommands(reg CommandRegistry, cfg Config) (*HandlerSet, error) {
	if cfg.Parser == nil {
		return nil, errors.New("markdown command: parser is required")
	}

	set := &HandlerSet{}

	renderLogger := commands.CommandLogger(cfg.Provider, "markdown.render")
	set.Render = NewRenderHandler(cfg.Parser, renderLogger, cfg.Gates,
		commands.WithTelemetry(commands.DefaultTelemetry[RenderMarkdownCommand](renderLogger, cfg.Observers...)),
	)

	if cfg.Syncer != nil {
		syncLogger := commands.CommandLogger(cfg.Provider, "content.sync")
		set.Sync = NewSyncHandler(cfg.Syncer, syncLogger, cfg.Gates,
			commands.WithTelemetry(commands.DefaultTelemetry[SyncContentCommand](syncLogger, cfg.Observers...)),
		)
	}

	if reg == nil {
		return set, nil
	}
	if err := reg.RegisterCommand(set.Render); err != nil {
		return nil, err
	}
	if set.Sync != nil {
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterMarkdownCron schedules recurring content syncs. The message template
// is copied for every run and executes under the context the registrar
// supplies, so scheduler timeouts reach the syncer.
func RegisterMarkdownCron(registrar CronRegistrar, handler *SyncHandler, cfg command.HandlerConfig, msg SyncContentCommand) error {
	if registrar == nil || handler == nil {
		return nil
	}
	if strings.TrimSpace(cfg.Expression) == "" {
		return nil
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		job := msg
		job.Result = nil
		return handler.Execute(ctx, job)
	}

	return registrar(cfg, run)
}
