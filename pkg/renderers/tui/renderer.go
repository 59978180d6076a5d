package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "tui"

// noneOption is the select entry that clears an optional choice.
const noneOption = "(none)"

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every editable field, pre-filled with the resolved value, and serializes
// the answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(nil),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if _, err := ParseOutputFormat(string(r.outputFormat)); err != nil {
		return nil, err
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatYAML:
		return "application/yaml"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs Collect and serializes the answers in the configured format.
func (r *Renderer) Render(ctx context.Context, descriptors model.Descriptors, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, descriptors, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values, descriptors.Names())
}

// Collect prompts for every editable descriptor and returns the answers.
// Hidden fields are skipped and locked fields are printed, never prompted, so
// neither appears in the result. Required fields are re-prompted until they
// hold a value.
func (r *Renderer) Collect(ctx context.Context, descriptors model.Descriptors, opts render.RenderOptions) (model.Record, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	localized := make(model.Descriptors, len(descriptors))
	copy(localized, descriptors)
	if opts.Translator != nil {
		render.Localize(localized, opts)
	}

	state := NewState(localized, opts.Errors)
	for _, desc := range localized {
		if err := r.promptField(ctx, desc, state, opts); err != nil {
			return nil, err
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, desc model.FieldDescriptor, state *State, opts render.RenderOptions) error {
	spec := desc.Spec
	switch spec.Layout.Visibility {
	case model.VisibilityHidden:
		return nil
	case model.VisibilityLocked:
		return r.info(ctx, fmt.Sprintf("%s: %s (locked)", displayLabel(spec), displayValue(spec, desc.Value)))
	}

	for _, message := range state.ErrorsFor(spec.Name) {
		if err := r.errorf(ctx, "%s: %s", displayLabel(spec), message); err != nil {
			return err
		}
	}

	switch spec.Kind {
	case model.KindBoolean:
		return r.promptBoolean(ctx, spec, state)
	case model.KindInteger:
		return r.promptInteger(ctx, spec, state)
	case model.KindSelect:
		return r.promptSelect(ctx, spec, state, opts)
	case model.KindDate:
		return r.promptDate(ctx, spec, state)
	default:
		if spec.Secret {
			return r.promptSecret(ctx, spec, state)
		}
		return r.promptText(ctx, spec, state)
	}
}

func (r *Renderer) promptText(ctx context.Context, spec model.FieldSpec, state *State) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(spec),
			Default: formatValue(state.Current(spec.Name)),
			Help:    displayHelp(spec),
		})
		if err != nil {
			return err
		}
		response = strings.TrimSpace(response)
		if spec.Required && response == "" {
			if err := r.errorf(ctx, "%s is required", displayLabel(spec)); err != nil {
				return err
			}
			continue
		}
		state.SetValue(spec.Name, response)
		return nil
	}
}

// promptSecret keeps the saved secret when the answer is empty.
func (r *Renderer) promptSecret(ctx context.Context, spec model.FieldSpec, state *State) error {
	hasValue := !model.IsEmpty(state.Current(spec.Name))
	message := displayLabel(spec)
	if hasValue {
		message += " (leave blank to keep)"
	}

	for {
		response, err := r.driver.Password(ctx, InputConfig{
			Message: message,
			Help:    displayHelp(spec),
		})
		if err != nil {
			return err
		}
		response = strings.TrimSpace(response)
		if response == "" {
			if hasValue {
				return nil
			}
			if spec.Required {
				if err := r.errorf(ctx, "%s is required", displayLabel(spec)); err != nil {
					return err
				}
				continue
			}
		}
		state.SetValue(spec.Name, response)
		return nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, spec model.FieldSpec, state *State) error {
	current, _ := state.Current(spec.Name).(bool)
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(spec),
		Default: current,
		Help:    displayHelp(spec),
	})
	if err != nil {
		return err
	}
	state.SetValue(spec.Name, resp)
	return nil
}

func (r *Renderer) promptInteger(ctx context.Context, spec model.FieldSpec, state *State) error {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(spec),
			Default: formatValue(state.Current(spec.Name)),
			Help:    displayHelp(spec),
		})
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			if spec.Required {
				if err := r.errorf(ctx, "%s is required", displayLabel(spec)); err != nil {
					return err
				}
				continue
			}
			state.SetValue(spec.Name, nil)
			return nil
		}

		parsed, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			if err := r.errorf(ctx, "%s: %q is not a whole number", displayLabel(spec), input); err != nil {
				return err
			}
			continue
		}
		if err := checkBounds(spec, parsed); err != nil {
			if err := r.errorf(ctx, "%s: %v", displayLabel(spec), err); err != nil {
				return err
			}
			continue
		}

		state.SetValue(spec.Name, parsed)
		return nil
	}
}

func (r *Renderer) promptDate(ctx context.Context, spec model.FieldSpec, state *State) error {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(spec) + " (YYYY-MM-DD)",
			Default: formatValue(state.Current(spec.Name)),
			Help:    displayHelp(spec),
		})
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" && spec.Required {
			if err := r.errorf(ctx, "%s is required", displayLabel(spec)); err != nil {
				return err
			}
			continue
		}
		if input != "" {
			if _, err := time.Parse(model.DateLayout, input); err != nil {
				if err := r.errorf(ctx, "%s: %q is not a date (YYYY-MM-DD)", displayLabel(spec), input); err != nil {
					return err
				}
				continue
			}
		}

		state.SetValue(spec.Name, input)
		return nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, spec model.FieldSpec, state *State, opts render.RenderOptions) error {
	values := append([]string(nil), spec.Choices...)
	if !spec.Required {
		values = append([]string{""}, values...)
	}
	options := make([]string, len(values))
	for i, value := range values {
		options[i] = choiceLabel(spec.Name, value, opts)
	}

	current, _ := state.Current(spec.Name).(string)
	defaultIdx := indexOf(values, current)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(spec),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(spec),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			if err := r.errorf(ctx, "%s: invalid selection", displayLabel(spec)); err != nil {
				return err
			}
			continue
		}
		state.SetValue(spec.Name, values[idx])
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(values model.Record, order []string) ([]byte, error) {
	return Serialize(r.outputFormat, values, order)
}

// Serialize writes values in format. YAML and pretty output follow order and
// skip keys it does not name; JSON output keeps every key.
func Serialize(format OutputFormat, values model.Record, order []string) ([]byte, error) {
	switch format {
	case OutputFormatYAML:
		return yaml.Marshal(orderedNode(values, order))
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values, order)), nil
	default:
		return json.Marshal(values)
	}
}

func checkBounds(spec model.FieldSpec, value int64) error {
	if spec.Min != nil && value < *spec.Min {
		return fmt.Errorf("must be at least %d", *spec.Min)
	}
	if spec.Max != nil && value > *spec.Max {
		return fmt.Errorf("must be at most %d", *spec.Max)
	}
	return nil
}

func displayLabel(spec model.FieldSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return model.DefaultLabeler(spec.Name)
}

func displayHelp(spec model.FieldSpec) string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(spec.Description); d != "" {
		parts = append(parts, d)
	}
	if n := strings.TrimSpace(spec.Notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " ")
}

func choiceLabel(field, choice string, opts render.RenderOptions) string {
	if choice == "" {
		return noneOption
	}
	if opts.Translator != nil {
		return render.ChoiceLabel(field, choice, opts)
	}
	return model.DefaultLabeler(choice)
}

func displayValue(spec model.FieldSpec, value any) string {
	if spec.Secret && !model.IsEmpty(value) {
		return "********"
	}
	if model.IsEmpty(value) {
		return "-"
	}
	return formatValue(value)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(model.DateLayout)
	}
	if n, ok := model.AsInt64(value); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(value)
}

func prettyPrint(values model.Record, order []string) string {
	var b strings.Builder
	for _, name := range order {
		value, ok := values[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", name, formatValue(value))
	}
	return b.String()
}

// orderedNode builds a YAML mapping that follows declaration order instead
// of yaml.v3's sorted map keys.
func orderedNode(values model.Record, order []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range order {
		value, ok := values[name]
		if !ok {
			continue
		}
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			valueNode = yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(value)}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&valueNode,
		)
	}
	return node
}
