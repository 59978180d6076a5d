package vanilla

import "strings"

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "sg-" + trimmed
}
