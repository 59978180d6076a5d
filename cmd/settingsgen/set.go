package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

func (a *app) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set name=value...",
		Short: "Set individual settings, validated like a form submission",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(ctx)
			if err != nil {
				return err
			}

			values := url.Values{}
			for _, arg := range args {
				name, raw, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("argument %q is not name=value", arg)
				}
				spec, ok := schema.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown setting %q", name)
				}
				if !spec.Layout.Visibility.Editable() {
					return fmt.Errorf("setting %q is %s and set by the host application", name, spec.Layout.Visibility)
				}
				values.Set(name, raw)
			}

			// DecodeForm reads every checkbox; keep only the named settings.
			decoded, errs := render.DecodeForm(schema, values)
			record := make(model.Record, len(values))
			for name := range values {
				if value, ok := decoded[name]; ok {
					record[name] = value
				}
			}
			if len(errs) > 0 {
				a.printErrors(errs, nil)
				return errInvalidSettings
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
}

func (a *app) unsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset name...",
		Short: "Remove settings from the store so they fall back to their defaults",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Delete(cmd.Context(), args...); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed %s\n", strings.Join(args, ", "))
			return nil
		},
	}
}
