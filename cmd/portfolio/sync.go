package main

import (
	"fmt"

	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/content"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/spf13/cobra"
)

func newSyncCmd(root *rootOptions) *cobra.Command {
	var (
		dryRun         bool
		deleteOrphaned bool
	)

	cmd := &cobra.Command{
		Use:   "sync [content-dir]",
		Short: "Import posts and case studies from a content directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Markdown.ContentDir = args[0]
			}
			cfg.Scheduler.Enabled = false

			module, err := moduleBuilder(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer module.Close()

			result := &content.SyncResult{}
			if err := module.Commands().Sync.Execute(cmd.Context(), markdowncmd.SyncContentCommand{
				Directory:      di.SyncRoot,
				DryRun:         dryRun,
				DeleteOrphaned: deleteOrphaned,
				Result:         result,
			}); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			prefix := ""
			if dryRun {
				prefix = "(dry run) "
			}
			_, _ = fmt.Fprintf(w, "%screated=%d updated=%d skipped=%d deleted=%d\n",
				prefix, result.Created, result.Updated, result.Skipped, result.Deleted)
			for _, docErr := range result.Errors {
				_, _ = fmt.Fprintf(w, "error: %v\n", docErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().BoolVar(&deleteOrphaned, "delete-orphaned", false, "remove imported records whose file is gone")
	return cmd
}
