package model

import "time"

// Kind is the closed set of setting kinds a FieldSpec can declare.
type Kind string

const (
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindDate    Kind = "date"
	KindBoolean Kind = "boolean"
	KindSelect  Kind = "select"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindInteger, KindDate, KindBoolean, KindSelect:
		return true
	default:
		return false
	}
}

// Visibility controls how a host presents a field. It never affects
// defaulting.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityCollapsed Visibility = "collapsed"
	VisibilityLocked    Visibility = "locked"
	VisibilityHidden    Visibility = "hidden"
)

// Valid reports whether v is a known visibility state. The empty value is
// accepted and normalised to VisibilityVisible by Define.
func (v Visibility) Valid() bool {
	switch v {
	case "", VisibilityVisible, VisibilityCollapsed, VisibilityLocked, VisibilityHidden:
		return true
	default:
		return false
	}
}

// Editable reports whether a host should accept user input for the field.
func (v Visibility) Editable() bool {
	return v != VisibilityLocked && v != VisibilityHidden
}

// DateLayout is the canonical string encoding for KindDate values.
const DateLayout = time.DateOnly

const (
	// MinWidth and MaxWidth bound Layout.Width (a percentage of the row).
	MinWidth = 1
	MaxWidth = 100
)

// Layout carries presentation hints for a field.
type Layout struct {
	Width      int        `json:"width" yaml:"width"`
	Visibility Visibility `json:"visibility" yaml:"visibility"`
}

// FieldSpec declares one configuration setting. Struct fields are annotated
// so hosts can serialise schemas directly.
type FieldSpec struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool     `json:"required" yaml:"required"`
	Choices     []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Layout      Layout   `json:"layout" yaml:"layout"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Notes       string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Secret      bool     `json:"secret,omitempty" yaml:"secret,omitempty"`
	Min         *int64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *int64   `json:"max,omitempty" yaml:"max,omitempty"`
}

// HasChoice reports whether value is one of the declared choices.
func (f FieldSpec) HasChoice(value string) bool {
	for _, choice := range f.Choices {
		if choice == value {
			return true
		}
	}
	return false
}

func (f FieldSpec) clone() FieldSpec {
	out := f
	if f.Choices != nil {
		out.Choices = append([]string(nil), f.Choices...)
	}
	if f.Min != nil {
		v := *f.Min
		out.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		out.Max = &v
	}
	return out
}

// Record is the host-persisted key/value blob of saved settings. It may be
// empty, partial, or carry keys from older schema versions.
type Record map[string]any

// AdvisoryKind classifies a non-fatal resolution finding.
type AdvisoryKind string

const (
	AdvisoryTypeMismatch    AdvisoryKind = "type_mismatch"
	AdvisoryMissingRequired AdvisoryKind = "missing_required"
)

// Advisory is a per-field note produced during resolution. Advisories never
// abort resolution; the host decides whether to block saving.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Field   string       `json:"field"`
	Message string       `json:"message"`
}

func (a Advisory) String() string {
	return a.Field + ": " + a.Message
}

// FieldDescriptor is the render-ready output for a single FieldSpec.
type FieldDescriptor struct {
	Spec       FieldSpec  `json:"spec"`
	Value      any        `json:"value"`
	Defaulted  bool       `json:"defaulted"`
	Missing    bool       `json:"missing"`
	Advisories []Advisory `json:"advisories,omitempty"`
}

// Name is a shortcut for Spec.Name.
func (d FieldDescriptor) Name() string {
	return d.Spec.Name
}

// TypeMismatch returns the type mismatch advisory, if any.
func (d FieldDescriptor) TypeMismatch() (Advisory, bool) {
	for _, adv := range d.Advisories {
		if adv.Kind == AdvisoryTypeMismatch {
			return adv, true
		}
	}
	return Advisory{}, false
}

// Descriptors is the ordered output of a resolution, one entry per FieldSpec
// in declaration order.
type Descriptors []FieldDescriptor

// Find returns the descriptor for name.
func (ds Descriptors) Find(name string) (FieldDescriptor, bool) {
	for _, d := range ds {
		if d.Spec.Name == name {
			return d, true
		}
	}
	return FieldDescriptor{}, false
}

// Names lists field names in output order.
func (ds Descriptors) Names() []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Spec.Name)
	}
	return out
}

// Values flattens the resolved values into a Record keyed by field name. Only
// fields declared by the schema appear.
func (ds Descriptors) Values() Record {
	out := make(Record, len(ds))
	for _, d := range ds {
		out[d.Spec.Name] = d.Value
	}
	return out
}

// Missing lists required fields that resolved to an empty value.
func (ds Descriptors) Missing() []string {
	var out []string
	for _, d := range ds {
		if d.Missing {
			out = append(out, d.Spec.Name)
		}
	}
	return out
}

// Advisories collects every advisory in output order.
func (ds Descriptors) Advisories() []Advisory {
	var out []Advisory
	for _, d := range ds {
		out = append(out, d.Advisories...)
	}
	return out
}

// Valid reports whether no descriptor carries an advisory.
func (ds Descriptors) Valid() bool {
	for _, d := range ds {
		if len(d.Advisories) > 0 {
			return false
		}
	}
	return true
}
