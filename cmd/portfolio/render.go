package main

import (
	"fmt"

	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		strict bool
		engine string
	)

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a Markdown file to HTML on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("engine") {
				cfg.Markdown.Engine = engine
			}

			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			body := source
			if _, rest, err := markdown.ParseFrontMatter(source); err == nil {
				body = rest
			}

			parser, err := markdown.NewParser(cfg.Markdown.Engine, markdown.Options{
				Strict:      cfg.Markdown.Strict,
				StrictRules: cfg.Markdown.StrictRules,
				HardWraps:   cfg.Markdown.Parser.HardWraps,
			}, interfaces.ParseOptions{
				Extensions: cfg.Markdown.Parser.Extensions,
				Sanitize:   cfg.Markdown.Parser.Sanitize,
				HardWraps:  cfg.Markdown.Parser.HardWraps,
				SafeMode:   cfg.Markdown.Parser.SafeMode,
			})
			if err != nil {
				return err
			}

			handler := markdowncmd.NewRenderHandler(parser, logging.NoOp(), markdowncmd.FeatureGates{})
			result := &markdowncmd.RenderResult{}
			if err := handler.Execute(cmd.Context(), markdowncmd.RenderMarkdownCommand{
				Source: string(body),
				Strict: strict || cfg.Markdown.Strict,
				Result: result,
			}); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
			return err
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "strip raw HTML from prose")
	cmd.Flags().StringVar(&engine, "engine", markdown.EngineBuiltin, "rendering engine: builtin or commonmark")
	return cmd
}
