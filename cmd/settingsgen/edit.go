package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
)

func (a *app) editCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the settings interactively and save them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			descriptors, err := orch.Resolve(ctx)
			if err != nil {
				return err
			}

			driver := a.prompt
			if driver == nil {
				driver = tui.NewSurveyDriver(a.errOut)
			}
			format := a.outputFormat()
			renderer, err := tui.New(tui.WithPromptDriver(driver), tui.WithOutputFormat(format))
			if err != nil {
				return err
			}

			record, err := renderer.Collect(ctx, descriptors, render.RenderOptions{
				Locale: a.cfg.Render.Locale,
				Errors: render.AdvisoryErrors(descriptors),
			})
			if err != nil {
				return err
			}

			if dryRun {
				data, err := tui.Serialize(format, record, descriptors.Names())
				if err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				_, err = a.out.Write(data)
				return err
			}

			result, err := orch.Save(ctx, record)
			if err != nil {
				return err
			}
			if !result.Valid() {
				a.printErrors(result.Errors, result.FormErrors)
				return errInvalidSettings
			}
			fmt.Fprintf(a.out, "saved %d settings\n", len(record))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the answers instead of saving them")
	return cmd
}

func (a *app) printErrors(fields map[string][]string, form []string) {
	for _, message := range form {
		fmt.Fprintf(a.errOut, "error: %s\n", message)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, message := range fields[name] {
			fmt.Fprintf(a.errOut, "error: %s: %s\n", name, message)
		}
	}
}
