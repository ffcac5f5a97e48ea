package domain

import (
	"fmt"
	"strings"
)

// DefaultSensitiveFields lists the leaf names holding personally identifiable or financial data
// in the social support application form.
var DefaultSensitiveFields = []string{
	// personal information
	"name",
	"nationalId",
	"address",
	"phone",
	"email",

	// financial information
	"financialSituation",
	"monthlyIncome",

	// employment
	"employmentCircumstances",
	"employmentStatus",

	"reasonForApplying",
}

// Registry is an immutable, ordered set of sensitive field names.
//
// Names are matched against the key of a leaf, never against its full path, so "name" is
// sensitive under personalInfo, familyInfo or inside an array of contacts alike.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry builds a Registry. Blank names are ignored and duplicates keep their first
// position.
func NewRegistry(names ...string) *Registry {
	r := &Registry{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := r.index[name]; ok {
			continue
		}
		r.index[name] = struct{}{}
		r.names = append(r.names, name)
	}
	return r
}

// IsSensitive reports whether a leaf with the given key name must be encrypted.
func (r *Registry) IsSensitive(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// Names returns a copy of the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Limits bounds the cost of a single primitive call and of a single tree walk.
type Limits struct {
	// MaxInputLength is the largest plaintext, in characters, accepted by Encrypt.
	MaxInputLength int
	// MaxSensitiveFields is the largest number of leaves one EncryptFormData call seals.
	MaxSensitiveFields int
}

// DefaultLimits returns the limits used when no configuration overrides them.
func DefaultLimits() Limits {
	return Limits{
		MaxInputLength:     DefaultMaxInputLength,
		MaxSensitiveFields: DefaultMaxSensitiveFields,
	}
}

// Policy groups everything the primitive and structural layers consult.
type Policy struct {
	Algorithm Algorithm
	Registry  *Registry
	Limits    Limits
}

// DefaultPolicy returns AES-256-GCM with the default registry and limits.
func DefaultPolicy() Policy {
	return Policy{
		Algorithm: AESGCM,
		Registry:  NewRegistry(DefaultSensitiveFields...),
		Limits:    DefaultLimits(),
	}
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if _, err := ParseAlgorithm(string(p.Algorithm)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if p.Registry == nil {
		return fmt.Errorf("%w: registry is required", ErrInvalidPolicy)
	}
	if p.Limits.MaxInputLength <= 0 {
		return fmt.Errorf("%w: max input length must be positive", ErrInvalidPolicy)
	}
	if p.Limits.MaxSensitiveFields <= 0 {
		return fmt.Errorf("%w: max sensitive fields must be positive", ErrInvalidPolicy)
	}
	return nil
}
