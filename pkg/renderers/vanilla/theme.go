package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeView struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	CSSVarsStyle string `json:"css_vars_style"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(".sg-form {\n")
	for _, key := range keys {
		if !strings.HasPrefix(key, "--") || strings.ContainsAny(vars[key], "{};<>") {
			continue
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
