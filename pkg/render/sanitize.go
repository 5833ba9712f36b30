package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// SanitizeFragment strips anything from rendered result/modal markup that is
// not part of the expected panel structure.
func SanitizeFragment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(fragmentSanitizer().Sanitize(trimmed))
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("div", "p", "a", "i", "span")
		policy.AllowAttrs("class").Globally()
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		fragmentPolicy = policy
	})
	return fragmentPolicy
}
