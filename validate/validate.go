// Package validate applies declarative, per-field rule tables to decoded
// request payloads. Every rule is evaluated so that a rejected request lists
// all offending fields, not only the first.
package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-api/errs"
)

// Kind is the expected JSON shape of a field.
type Kind int

const (
	String Kind = iota
	Number
	Array
	Object
	Email
	Any
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Array:
		return "array"
	case Object:
		return "object"
	case Email:
		return "email"
	default:
		return "any"
	}
}

// Normalizer rewrites a string value before it is checked and stored.
type Normalizer func(string) string

// Rule describes how a single field is checked and normalized.
type Rule struct {
	Field     string
	Kind      Kind
	Required  bool
	Tag       string // extra go-playground/validator tag, e.g. "max=120"
	Normalize []Normalizer
	Message   string // overrides the generated message
}

// Schema is the rule table for one route.
type Schema []Rule

var engine = validator.New()

// Apply checks input against every rule in s and returns a new map holding
// only the fields the schema knows about, normalized. Optional fields that are
// absent or blank are omitted from the result.
func (s Schema) Apply(input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s))
	var failures []errs.FieldError

	for _, rule := range s {
		value, ok, msg := rule.check(input[rule.Field])
		if msg != "" {
			if rule.Message != "" {
				msg = rule.Message
			}
			failures = append(failures, errs.FieldError{Field: rule.Field, Message: msg})
			continue
		}
		if ok {
			out[rule.Field] = value
		}
	}

	if len(failures) > 0 {
		return nil, errs.NewValidationError(failures)
	}
	return out, nil
}

// check returns the normalized value, whether it is present, and a failure
// message when the rule is violated.
func (r Rule) check(raw any) (any, bool, string) {
	value, present, msg := r.coerce(raw)
	if msg != "" {
		return nil, false, msg
	}
	if !present {
		if r.Required {
			return nil, false, fmt.Sprintf("%s is required", r.Field)
		}
		return nil, false, ""
	}

	tag := r.Tag
	if r.Kind == Email {
		tag = joinTags("email", tag)
	}
	if tag != "" {
		if err := engine.Var(value, tag); err != nil {
			if r.Kind == Email {
				return nil, false, "Valid email is required"
			}
			return nil, false, fmt.Sprintf("%s is invalid", r.Field)
		}
	}
	return value, true, ""
}

func (r Rule) coerce(raw any) (any, bool, string) {
	if raw == nil {
		return nil, false, ""
	}

	switch r.Kind {
	case String, Email:
		s, ok := raw.(string)
		if !ok {
			return nil, false, fmt.Sprintf("%s must be a %s", r.Field, String)
		}
		s = r.apply(s)
		if r.Kind == Email {
			s = LowerCase(s)
		}
		if s == "" {
			return nil, false, ""
		}
		return s, true, ""

	case Number:
		switch n := raw.(type) {
		case float64:
			return n, true, ""
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, false, fmt.Sprintf("%s must be a number", r.Field)
			}
			return f, true, ""
		case string:
			n = strings.TrimSpace(n)
			if n == "" {
				return nil, false, ""
			}
			if err := engine.Var(n, "numeric"); err != nil {
				return nil, false, fmt.Sprintf("%s must be a number", r.Field)
			}
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, false, fmt.Sprintf("%s must be a number", r.Field)
			}
			return f, true, ""
		default:
			return nil, false, fmt.Sprintf("%s must be a number", r.Field)
		}

	case Array:
		var items []string
		switch a := raw.(type) {
		case []string:
			items = a
		case []any:
			items = make([]string, 0, len(a))
			for _, item := range a {
				s, ok := item.(string)
				if !ok {
					return nil, false, fmt.Sprintf("%s must be an array of strings", r.Field)
				}
				items = append(items, s)
			}
		default:
			return nil, false, fmt.Sprintf("%s must be an array", r.Field)
		}
		normalized := make([]string, 0, len(items))
		for _, item := range items {
			if item = r.apply(item); item != "" {
				normalized = append(normalized, item)
			}
		}
		return normalized, true, ""

	case Object:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, false, fmt.Sprintf("%s must be an object", r.Field)
		}
		return m, true, ""

	default:
		if s, ok := raw.(string); ok {
			s = r.apply(s)
			if s == "" {
				return nil, false, ""
			}
			return s, true, ""
		}
		return raw, true, ""
	}
}

func (r Rule) apply(s string) string {
	for _, n := range r.Normalize {
		s = n(s)
	}
	return s
}

func joinTags(tags ...string) string {
	var parts []string
	for _, t := range tags {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ",")
}

// Decode copies a normalized map into dst using its json tags.
func Decode(normalized map[string]any, dst any) error {
	b, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
