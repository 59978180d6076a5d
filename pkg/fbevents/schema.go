// Package fbevents declares the settings schema of the Facebook page events
// integration and a typed view over resolved settings for the API client.
package fbevents

import (
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Field names, also the keys of the persisted settings record.
const (
	FieldClientID     = "clientId"
	FieldClientSecret = "clientSecret"
	FieldPageName     = "pageName"
	FieldPageID       = "pageId"
	FieldAccessToken  = "accessToken"
	FieldCacheExpire  = "cacheExpire"
	FieldLimit        = "limit"
	FieldDateSince    = "dateSince"
	FieldDateUntil    = "dateUntil"
	FieldSortReverse  = "sortReverse"
)

// CurrentVersion is the schema version returned by Schema.
const CurrentVersion = 2

const (
	DefaultCacheExpire = string(CacheDaily)
	DefaultLimit       = 10
	MinLimit           = 1
	MaxLimit           = 100
)

var (
	schemaV1 = model.MustDefine(1, baseFields()...)
	schemaV2 = model.MustDefine(2, append(baseFields(), v2Fields()...)...)
)

// Schema returns the current registry.
func Schema() *model.Registry {
	return schemaV2
}

// SchemaV1 returns the first published schema: credentials, page and cache
// lifetime only.
func SchemaV1() *model.Registry {
	return schemaV1
}

// SchemaV2 returns the schema that adds result limit, date range and sort
// direction on top of version 1.
func SchemaV2() *model.Registry {
	return schemaV2
}

// SchemaVersion returns the registry for a version, falling back to the
// current schema for unknown versions.
func SchemaVersion(version int) (*model.Registry, bool) {
	switch version {
	case 1:
		return schemaV1, true
	case 2:
		return schemaV2, true
	default:
		return schemaV2, false
	}
}

// Defaults returns a record holding every default of the current schema.
func Defaults() model.Record {
	out := make(model.Record, schemaV2.Len())
	for _, spec := range schemaV2.All() {
		out[spec.Name] = spec.Default
	}
	return out
}

func baseFields() []model.FieldSpec {
	return []model.FieldSpec{
		{
			Name:     FieldClientID,
			Kind:     model.KindText,
			Default:  "",
			Required: true,
			Label:    "Facebook App ID",
			Layout:   model.Layout{Width: 50},
		},
		{
			Name:     FieldClientSecret,
			Kind:     model.KindText,
			Default:  "",
			Required: true,
			Secret:   true,
			Label:    "Facebook App Secret",
			Layout:   model.Layout{Width: 50},
		},
		{
			Name:        FieldPageName,
			Kind:        model.KindText,
			Default:     "",
			Required:    true,
			Label:       "Facebook Page Name",
			Description: "You can either enter the facebook page name or ID.",
			Notes:       "https://www.facebook.com/XXX/",
			Layout:      model.Layout{Width: 50},
		},
		{
			Name:    FieldPageID,
			Kind:    model.KindText,
			Default: "",
			Label:   "Facebook Page ID",
			Layout:  model.Layout{Width: 50, Visibility: model.VisibilityLocked},
		},
		{
			Name:    FieldAccessToken,
			Kind:    model.KindText,
			Default: "",
			Secret:  true,
			Label:   "Facebook Access Token",
			Layout:  model.Layout{Width: 50, Visibility: model.VisibilityHidden},
		},
		{
			Name:        FieldCacheExpire,
			Kind:        model.KindSelect,
			Default:     DefaultCacheExpire,
			Required:    true,
			Choices:     CacheLifetimeNames(),
			Label:       "Cache expires",
			Description: "By default a cache lasts for one day. You could select another lifetime.",
			Layout:      model.Layout{Width: 100},
		},
	}
}

func v2Fields() []model.FieldSpec {
	minLimit, maxLimit := int64(MinLimit), int64(MaxLimit)
	return []model.FieldSpec{
		{
			Name:        FieldLimit,
			Kind:        model.KindInteger,
			Default:     DefaultLimit,
			Label:       "Limit",
			Description: "Maximum number of events to fetch.",
			Min:         &minLimit,
			Max:         &maxLimit,
			Layout:      model.Layout{Width: 34},
		},
		{
			Name:        FieldDateSince,
			Kind:        model.KindDate,
			Default:     "",
			Label:       "Events since",
			Description: "Only list events starting on or after this date.",
			Layout:      model.Layout{Width: 33, Visibility: model.VisibilityCollapsed},
		},
		{
			Name:        FieldDateUntil,
			Kind:        model.KindDate,
			Default:     "",
			Label:       "Events until",
			Description: "Only list events starting on or before this date.",
			Layout:      model.Layout{Width: 33, Visibility: model.VisibilityCollapsed},
		},
		{
			Name:    FieldSortReverse,
			Kind:    model.KindBoolean,
			Default: false,
			Label:   "Newest events first",
			Layout:  model.Layout{Width: 100},
		},
	}
}
