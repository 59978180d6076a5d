package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
)

const maskedSecret = "********"

func (a *app) resolveCommand() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the effective settings: saved values over schema defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			descriptors, err := orch.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			values := descriptors.Values()
			if !showSecrets {
				maskSecrets(descriptors, values)
			}
			data, err := tui.Serialize(a.outputFormat(), values, descriptors.Names())
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			if _, err := a.out.Write(data); err != nil {
				return err
			}
			if a.outputFormat() == tui.OutputFormatJSON {
				fmt.Fprintln(a.out)
			}

			for _, adv := range descriptors.Advisories() {
				fmt.Fprintf(a.errOut, "advisory: %s\n", adv)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secret values instead of a mask")
	return cmd
}

func maskSecrets(descriptors model.Descriptors, values model.Record) {
	for _, desc := range descriptors {
		if desc.Spec.Secret && !model.IsEmpty(values[desc.Name()]) {
			values[desc.Name()] = maskedSecret
		}
	}
}
