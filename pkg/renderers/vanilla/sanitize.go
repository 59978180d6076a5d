package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps the inline markup a settings description may
// carry (links, emphasis, code) and strips everything else. Links open in a
// new tab with rel="noopener noreferrer".
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		policy.RequireNoReferrerOnLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}
