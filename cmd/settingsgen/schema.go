package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/pkg/openapi"
)

func (a *app) schemaCommand() *cobra.Command {
	var (
		asOpenAPI bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the settings schema as field specs or an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(cmd.Context())
			if err != nil {
				return err
			}

			var payload any = schema.All()
			if asOpenAPI {
				payload = openapi.Document(schema, title)
			}

			var data []byte
			if a.cfg.Render.Format == "yaml" {
				data, err = yaml.Marshal(payload)
			} else {
				data, err = json.MarshalIndent(payload, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(a.out, string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&asOpenAPI, "openapi", false, "print an OpenAPI 3 document")
	cmd.Flags().StringVar(&title, "title", "Facebook page events settings", "info.title of the OpenAPI document")
	return cmd
}
