// Package redaction implements the field-level masking rules applied to
// printable documents (receipts, report cards, invoices, consultation
// summaries) when a repeat copy is issued. Every rule is a pure, total
// function: it never fails and never mutates its input, and empty input
// always comes back unchanged so that missing data never gains a mask token.
package redaction

import (
	"fmt"
	"strings"
)

// FieldKind selects which masking rule applies to a raw value.
type FieldKind string

const (
	KindName       FieldKind = "name"
	KindPhone      FieldKind = "phone"
	KindEmail      FieldKind = "email"
	KindAddress    FieldKind = "address"
	KindIdentifier FieldKind = "identifier"
)

// maskToken replaces the street-level portion of an address.
const maskToken = "*****"

// ValidKinds returns the set of recognized field kinds.
func ValidKinds() []FieldKind {
	return []FieldKind{KindName, KindPhone, KindEmail, KindAddress, KindIdentifier}
}

// IsValidKind checks whether a kind string is a recognized value.
func IsValidKind(kind FieldKind) bool {
	for _, k := range ValidKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Policy is the stateless rule table mapping a field kind to its transform.
type Policy struct {
	rules map[FieldKind]func(string) string
}

// NewPolicy builds the default rule table.
func NewPolicy() *Policy {
	return &Policy{
		rules: map[FieldKind]func(string) string{
			KindName:       maskName,
			KindPhone:      maskTrailing,
			KindEmail:      maskEmail,
			KindAddress:    maskAddress,
			KindIdentifier: maskTrailing,
		},
	}
}

// Apply transforms value according to the rule for kind. Unknown kinds
// return an error along with the raw value so callers can log the miss and
// keep going; Apply itself never panics.
func (p *Policy) Apply(value string, kind FieldKind) (string, error) {
	if value == "" {
		return "", nil
	}
	rule, ok := p.rules[kind]
	if !ok {
		return value, fmt.Errorf("no redaction rule for field kind %q", kind)
	}
	return rule(value), nil
}

// maskTrailing keeps the last 4 characters and replaces the rest with '*'.
// Values of 4 characters or fewer are too short to redact stably and pass
// through unchanged. Shared by phone numbers and identifiers.
func maskTrailing(v string) string {
	r := []rune(v)
	if len(r) <= 4 {
		return v
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

// maskEmail keeps the first 2 characters of the local part, pads the rest of
// the local part with '*' to its original length, and leaves the domain
// intact. Values without both a local part and a domain pass through.
func maskEmail(v string) string {
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return v
	}
	local := []rune(v[:at])
	if len(local) <= 2 {
		return v
	}
	return string(local[:2]) + strings.Repeat("*", len(local)-2) + v[at:]
}

// maskAddress drops everything but the last two comma-separated segments
// (broad locality/region) behind a fixed mask token. Addresses with fewer
// than two segments collapse to the token alone.
func maskAddress(v string) string {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return maskToken
	}
	tail := parts[len(parts)-2:]
	for i := range tail {
		tail[i] = strings.TrimSpace(tail[i])
	}
	return maskToken + ", " + strings.Join(tail, ", ")
}

// maskName keeps the first name and reduces the last name to its initial
// ("Siddu Babu" -> "Siddu B***"). Single-token names keep at most their
// first 3 characters before the mask.
func maskName(v string) string {
	tokens := strings.Fields(v)
	if len(tokens) > 1 {
		first := tokens[0]
		last := []rune(tokens[len(tokens)-1])
		return first + " " + string(last[0]) + "***"
	}
	trimmed := strings.TrimSpace(v)
	r := []rune(trimmed)
	if len(r) > 3 {
		return string(r[:3]) + "***"
	}
	return trimmed + "***"
}
