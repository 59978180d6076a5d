package vanilla

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

// secretPlaceholder is shown in secret inputs that already hold a saved
// value. The value itself is never written to the page.
const secretPlaceholder = "Saved. Leave blank to keep."

type formView struct {
	Action      string       `json:"action"`
	Method      string       `json:"method"`
	Hidden      []hiddenView `json:"hidden"`
	Errors      []string     `json:"errors"`
	SubmitLabel string       `json:"submit_label"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Kind        string       `json:"kind"`
	InputType   string       `json:"input_type"`
	Value       string       `json:"value"`
	Placeholder string       `json:"placeholder"`
	Checked     bool         `json:"checked"`
	Options     []optionView `json:"options"`
	Width       int          `json:"width"`
	Visibility  string       `json:"visibility"`
	Collapsible bool         `json:"collapsible"`
	Open        bool         `json:"open"`
	Locked      bool         `json:"locked"`
	Required    bool         `json:"required"`
	Secret      bool         `json:"secret"`
	Missing     bool         `json:"missing"`
	Defaulted   bool         `json:"defaulted"`
	Min         string       `json:"min"`
	Max         string       `json:"max"`
	Description string       `json:"description"`
	Notes       string       `json:"notes"`
	Errors      []string     `json:"errors"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func buildFields(descriptors model.Descriptors, errs map[string][]string, options render.RenderOptions) []fieldView {
	out := make([]fieldView, 0, len(descriptors))
	for _, d := range descriptors {
		spec := d.Spec
		if spec.Layout.Visibility == model.VisibilityHidden {
			continue
		}

		view := fieldView{
			ID:          controlID(spec.Name),
			Name:        spec.Name,
			Label:       labelFor(spec),
			Kind:        string(spec.Kind),
			InputType:   inputType(spec),
			Width:       spec.Layout.Width,
			Visibility:  string(spec.Layout.Visibility),
			Locked:      spec.Layout.Visibility == model.VisibilityLocked,
			Required:    spec.Required,
			Secret:      spec.Secret,
			Missing:     d.Missing,
			Defaulted:   d.Defaulted,
			Description: sanitizeDescription(spec.Description),
			Notes:       sanitizeDescription(spec.Notes),
			Errors:      errs[spec.Name],
		}
		view.Collapsible = view.Locked || spec.Layout.Visibility == model.VisibilityCollapsed
		// Collapsed sections open when they need attention.
		view.Open = view.Collapsible && (d.Missing || len(view.Errors) > 0)

		switch spec.Kind {
		case model.KindBoolean:
			view.Checked, _ = d.Value.(bool)
		case model.KindSelect:
			view.Options = buildOptions(spec, formatValue(d.Value), options)
		case model.KindInteger:
			if spec.Min != nil {
				view.Min = strconv.FormatInt(*spec.Min, 10)
			}
			if spec.Max != nil {
				view.Max = strconv.FormatInt(*spec.Max, 10)
			}
			view.Value = formatValue(d.Value)
		default:
			view.Value = formatValue(d.Value)
		}

		if spec.Secret {
			if !model.IsEmpty(d.Value) {
				view.Placeholder = secretPlaceholder
			}
			view.Value = ""
		}
		out = append(out, view)
	}
	return out
}

func buildOptions(spec model.FieldSpec, current string, options render.RenderOptions) []optionView {
	out := make([]optionView, 0, len(spec.Choices)+1)
	if !spec.Required || current == "" {
		out = append(out, optionView{Value: "", Label: "", Selected: current == ""})
	}
	for _, choice := range spec.Choices {
		out = append(out, optionView{
			Value:    choice,
			Label:    choiceLabel(spec.Name, choice, options),
			Selected: choice == current,
		})
	}
	return out
}

func choiceLabel(field, choice string, options render.RenderOptions) string {
	if options.Translator != nil {
		return render.ChoiceLabel(field, choice, options)
	}
	return model.DefaultLabeler(choice)
}

func labelFor(spec model.FieldSpec) string {
	if label := strings.TrimSpace(spec.Label); label != "" {
		return label
	}
	return model.DefaultLabeler(spec.Name)
}

func inputType(spec model.FieldSpec) string {
	switch spec.Kind {
	case model.KindInteger:
		return "number"
	case model.KindDate:
		return "date"
	case model.KindBoolean:
		return "checkbox"
	case model.KindSelect:
		return "select"
	default:
		if spec.Secret {
			return "password"
		}
		return "text"
	}
}

// formatValue renders a resolved value as an input value. Mismatched values
// are printed as-is so the user can see and fix them.
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
