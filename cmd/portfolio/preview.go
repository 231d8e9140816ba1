package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/spf13/cobra"
)

func newPreviewCmd(_ *rootOptions) *cobra.Command {
	var (
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "preview <file|->",
		Short: "Show a Markdown file styled for the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			fm, body, err := markdown.ParseFrontMatter(source)
			if err != nil {
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("preview renderer: %w", err)
			}
			out, err := renderer.Render(string(body))
			if err != nil {
				return fmt.Errorf("preview render: %w", err)
			}

			w := cmd.OutOrStdout()
			if fm.Title != "" {
				_, _ = fmt.Fprintf(w, "%s\n", fm.Title)
			}
			if fm.Slug != "" {
				_, _ = fmt.Fprintf(w, "slug: %s\n", fm.Slug)
			}
			_, err = fmt.Fprint(w, out)
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "dracula", "glamour style: dracula, dark, light, notty, ascii")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}
