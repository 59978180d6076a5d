package pongo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("lowerfirst") {
		_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
	}
	if !pongo2.FilterExists("flexbasis") {
		_ = pongo2.RegisterFilter("flexbasis", filterFlexBasis)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	var (
		firstNonWhitespaceIndex int
		firstRune               rune
		firstRuneSize           int
	)

	for i, r := range t {
		if !strings.ContainsRune(" \t\n\r", r) {
			firstNonWhitespaceIndex = i
			firstRune = r
			firstRuneSize = utf8.RuneLen(r)
			break
		}
	}

	if firstRune == 0 {
		return pongo2.AsValue(t), nil
	}

	prefix := t[:firstNonWhitespaceIndex]
	loweredRune := strings.ToLower(string(firstRune))
	rest := t[firstNonWhitespaceIndex+firstRuneSize:]

	return pongo2.AsValue(prefix + loweredRune + rest), nil
}

// filterFlexBasis turns a layout width (percentage of the row) into a CSS
// flex declaration. Out of range widths are clamped to 1..100.
func filterFlexBasis(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	width := in.Integer()
	if width < 1 {
		width = 1
	}
	if width > 100 {
		width = 100
	}
	return pongo2.AsValue(fmt.Sprintf("flex: 0 0 %d%%; max-width: %d%%;", width, width)), nil
}
