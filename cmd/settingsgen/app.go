package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/internal/config"
	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
	"github.com/goliatone/go-settingsgen/pkg/store"
)

const remoteSchemaTimeout = 30 * time.Second

// errInvalidSettings makes the process exit non-zero after the offending
// fields were printed.
var errInvalidSettings = errors.New("settings are invalid")

type app struct {
	out    io.Writer
	errOut io.Writer
	// env replaces the process environment when non-nil.
	env map[string]string
	// prompt replaces the survey driver of the edit command when non-nil.
	prompt tui.PromptDriver

	flags      config.Config
	presetPath string

	cfg    *config.Config
	log    *logger.Logger
	store  store.Store
	schema *orchestratorSchema
}

// orchestratorSchema keeps the schema options shared by every command.
type orchestratorSchema struct {
	builtin bool
	options []orchestrator.Option
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "settingsgen",
		Short:        "Inspect, render, and edit Facebook page events settings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.File, "config", "", "YAML configuration file (env "+config.EnvPrefix+"CONFIG)")
	flags.StringVar(&a.flags.Log.Level, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.flags.Store.Driver, "store-driver", "", "settings store: memory, yaml, sqlite, bolt")
	flags.StringVar(&a.flags.Store.Path, "store-path", "", "settings store file")
	flags.StringVar(&a.flags.Store.Scope, "scope", "", "settings scope inside a shared store")
	flags.IntVar(&a.flags.Schema.Version, "schema-version", 0, "historical schema version, 0 for current")
	flags.StringVar(&a.flags.Schema.Source, "schema-source", "", "OpenAPI document (path or URL) replacing the built-in schema")
	flags.StringVar(&a.flags.Schema.Component, "schema-component", "", "components.schemas entry of --schema-source")
	flags.StringVar(&a.flags.Render.Format, "format", "", "output format: html, json, yaml, pretty")
	flags.StringVar(&a.flags.Render.Locale, "locale", "", "locale passed to renderers")
	flags.StringVar(&a.presetPath, "preset", "", "JSON preset patching labels and layout")

	root.AddCommand(
		a.schemaCommand(),
		a.resolveCommand(),
		a.renderCommand(),
		a.editCommand(),
		a.validateCommand(),
		a.setCommand(),
		a.unsetCommand(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(config.LoadOptions{Flags: &a.flags, Environment: a.env})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewLogger("settingsgen", cfg.Log.Level, a.errOut)

	schema, err := a.schemaOptions()
	if err != nil {
		return err
	}
	a.schema = schema

	s, err := store.Open(ctx, cfg.Store, store.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.store = s

	a.log.Debug().
		Str("driver", cfg.Store.Driver).
		Str("scope", cfg.Store.Scope).
		Str("config", cfg.File).
		Msg("settingsgen ready")
	return nil
}

func (a *app) schemaOptions() (*orchestratorSchema, error) {
	if a.cfg.Schema.Source != "" {
		src, err := openapi.ParseSource(a.cfg.Schema.Source)
		if err != nil {
			return nil, err
		}
		loader := openapi.NewLoader(
			openapi.WithComponent(a.cfg.Schema.Component),
			openapi.WithHTTPFallback(remoteSchemaTimeout),
		)
		return &orchestratorSchema{
			options: []orchestrator.Option{orchestrator.WithSchemaSource(src, loader)},
		}, nil
	}

	schema := fbevents.Schema()
	if version := a.cfg.Schema.Version; version != 0 {
		var ok bool
		if schema, ok = fbevents.SchemaVersion(version); !ok {
			return nil, fmt.Errorf("unknown schema version %d", version)
		}
	}
	return &orchestratorSchema{
		builtin: true,
		options: []orchestrator.Option{orchestrator.WithSchema(schema)},
	}, nil
}

// orchestrator builds the settings pipeline over the configured schema and
// store. extra options are applied last.
func (a *app) orchestrator(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options := append([]orchestrator.Option{
		orchestrator.WithStore(a.store),
		orchestrator.WithLogger(a.log),
	}, a.schema.options...)

	if a.presetPath != "" {
		data, err := os.ReadFile(a.presetPath)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}

	return orchestrator.New(append(options, extra...)...), nil
}

// outputFormat maps the configured format onto a terminal format; html
// falls back to pretty.
func (a *app) outputFormat() tui.OutputFormat {
	if a.cfg.Render.Format == "html" {
		return tui.OutputFormatPrettyText
	}
	format, err := tui.ParseOutputFormat(a.cfg.Render.Format)
	if err != nil {
		return tui.OutputFormatPrettyText
	}
	return format
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close settings store")
	}
	a.store = nil
}
