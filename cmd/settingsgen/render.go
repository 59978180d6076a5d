package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
)

func (a *app) renderCommand() *cobra.Command {
	var (
		output       string
		stylesheets  []string
		inlineStyles bool
		advisories   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the settings form as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := []vanilla.Option{}
			for _, href := range stylesheets {
				options = append(options, vanilla.WithStylesheet(href))
			}
			if inlineStyles {
				options = append(options, vanilla.WithDefaultStyles())
			}
			if advisories {
				options = append(options, vanilla.WithAdvisoryErrors())
			}
			renderer, err := vanilla.New(options...)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(renderer)

			orch, err := a.orchestrator(orchestrator.WithRegistry(registry))
			if err != nil {
				return err
			}

			html, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Renderer: vanilla.Name,
				RenderOptions: render.RenderOptions{
					Action: a.cfg.Render.Action,
					Method: a.cfg.Render.Method,
					Locale: a.cfg.Render.Locale,
					Theme:  a.cfg.Render.ThemeConfig(),
				},
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = a.out.Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(a.errOut, "form written to %s\n", output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&a.flags.Render.Action, "action", "", "form action URL")
	flags.StringVar(&a.flags.Render.Method, "method", "", "form method")
	flags.StringVar(&a.flags.Render.Theme, "theme", "", "go-theme name")
	flags.StringVar(&a.flags.Render.Variant, "variant", "", "go-theme variant")
	flags.StringArrayVar(&stylesheets, "stylesheet", nil, "stylesheet URL to link, repeatable")
	flags.BoolVar(&inlineStyles, "inline-styles", false, "inline the default stylesheet")
	flags.BoolVar(&advisories, "advisories", false, "show missing and invalid saved values as field errors")
	return cmd
}
