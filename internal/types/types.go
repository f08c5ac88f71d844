// Package types is the type-registry view the validator consults to
// check a field's value against its declared scalar type. The registry
// itself — which named types exist and how each validates a string — is
// an external collaborator per the core validator's scope; this package
// supplies both the contract and a concrete registry of the domain's
// scalar types (hostnames, URLs, timestamps, identifiers), the way the
// teacher's parameter-type package both names types and knows how to
// parse a raw string into one.
package types

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Registry looks up a named scalar type and validates a string against
// it, returning zero or more diagnostic messages.
type Registry interface {
	HasType(name string) bool
	ValidateType(name, value string) []string
}

// Validator parses/validates a single raw value, returning human-readable
// diagnostics (empty when the value conforms).
type Validator func(value string) []string

// DefaultRegistry is a Registry backed by a fixed map of named
// validators. Unlike the teacher's ParameterType (a closed enum), new
// scalar types can be registered at construction time, since a directory
// registry's reply grammar routinely adds ad hoc field types.
type DefaultRegistry struct {
	validators map[string]Validator
}

// NewDefaultRegistry returns a registry pre-loaded with the scalar types
// directory-service replies commonly use: hostname, url, timestamp and
// identifier. Callers may layer additional types with Register.
func NewDefaultRegistry() *DefaultRegistry {
	r := &DefaultRegistry{validators: make(map[string]Validator)}
	r.Register("hostname", validateHostname)
	r.Register("url", validateURL)
	r.Register("timestamp", validateTimestamp)
	r.Register("identifier", validateIdentifier)
	return r
}

// Register adds or replaces the validator for a named type.
func (r *DefaultRegistry) Register(name string, v Validator) {
	r.validators[name] = v
}

// HasType reports whether name resolves in the registry.
func (r *DefaultRegistry) HasType(name string) bool {
	_, ok := r.validators[name]
	return ok
}

// ValidateType validates value against the named type. Calling it with
// an unregistered name is a programmer error, consistent with grammar
// invariant (ii): every type must resolve before validation begins.
func (r *DefaultRegistry) ValidateType(name, value string) []string {
	v, ok := r.validators[name]
	if !ok {
		panic(fmt.Sprintf("types: unknown type %q", name))
	}
	return v(value)
}

var hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

func validateHostname(value string) []string {
	if value == "" {
		return []string{"hostname must not be empty"}
	}
	if ip := net.ParseIP(value); ip != nil {
		return nil
	}
	labels := strings.Split(value, ".")
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 || !hostnameLabel.MatchString(label) {
			return []string{fmt.Sprintf("%q is not a valid hostname", value)}
		}
	}
	return nil
}

func validateURL(value string) []string {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []string{fmt.Sprintf("%q is not a valid URL", value)}
	}
	return nil
}

// timestampLayouts are tried in order; directory-registry replies tend to
// use RFC3339 but some emit a bare date.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func validateTimestamp(value string) []string {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return []string{fmt.Sprintf("%q is not a valid timestamp", value)}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func validateIdentifier(value string) []string {
	if !identifierPattern.MatchString(value) {
		return []string{fmt.Sprintf("%q is not a valid identifier", value)}
	}
	return nil
}
