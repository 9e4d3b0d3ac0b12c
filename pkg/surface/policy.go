package surface

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce    sync.Once
	defaultPolicy *bluemonday.Policy
)

// DefaultPolicy is the sanitizer applied to projected preview markup: user
// generated content rules plus class attributes for styling hooks. Scripts
// and inline handlers never reach the isolated context.
func DefaultPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		defaultPolicy = policy
	})
	return defaultPolicy
}
