package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the saved settings against the schema; exits non-zero when invalid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(ctx)
			if err != nil {
				return err
			}
			descriptors, err := orch.Resolve(ctx)
			if err != nil {
				return err
			}

			var problems []string
			reported := make(map[string]bool)
			for _, adv := range descriptors.Advisories() {
				problems = append(problems, adv.String())
				reported[adv.Field] = true
			}
			for _, issue := range openapi.ValidateRecord(schema, descriptors.Values()) {
				if !reported[issue.Field] {
					problems = append(problems, issue.String())
				}
			}

			// The typed view adds cross-field rules such as the date range.
			if len(problems) == 0 && a.schema.builtin {
				if _, err := fbevents.Decode(descriptors); err != nil {
					problems = append(problems, strings.Split(err.Error(), "\n")...)
				}
			}

			if len(problems) > 0 {
				for _, problem := range problems {
					fmt.Fprintf(a.errOut, "invalid: %s\n", problem)
				}
				return errInvalidSettings
			}
			fmt.Fprintln(a.out, "settings are valid")
			return nil
		},
	}
}
