package markdowncmd

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/content"
)

const (
	renderMessageType = "portfolio.markdown.render"
	syncMessageType   = "portfolio.content.sync_directory"

	// MaxRenderSourceBytes bounds RenderMarkdownCommand.Source.
	MaxRenderSourceBytes = 1 << 20
)

// RenderResult receives the rendered fragment.
type RenderResult struct {
	HTML string `json:"html"`
}

// RenderMarkdownCommand converts Source to HTML. Strict applies the sanitising
// policy to the output.
type RenderMarkdownCommand struct {
	Source string        `json:"source"`
	Strict bool          `json:"strict,omitempty"`
	Result *RenderResult `json:"-"`
}

// Type implements command.Message.
func (RenderMarkdownCommand) Type() string { return renderMessageType }

// Validate rejects sources above MaxRenderSourceBytes.
func (cmd RenderMarkdownCommand) Validate() error {
	if len(cmd.Source) > MaxRenderSourceBytes {
		return fmt.Errorf("%w: source is %d bytes, limit %d", commands.ErrPayloadTooLarge, len(cmd.Source), MaxRenderSourceBytes)
	}
	return nil
}

// SyncContentCommand imports a content directory into posts and case studies.
type SyncContentCommand struct {
	Directory      string              `json:"directory"`
	DryRun         bool                `json:"dry_run,omitempty"`
	DeleteOrphaned bool                `json:"delete_orphaned,omitempty"`
	Result         *content.SyncResult `json:"-"`
}

// Type implements command.Message.
func (SyncContentCommand) Type() string { return syncMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("portfolio.content.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
