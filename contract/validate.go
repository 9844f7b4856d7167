package contract

import (
	"strings"

	"github.com/fewlinesco/rampsdk/internal/stringset"
	"github.com/fewlinesco/rampsdk/schema"
)

// ValidateRequest checks caller-supplied query parameters and body against
// ep before anything is sent. Bodies are only checked for mutating methods.
// Validation stops at the first violation.
func ValidateRequest(method, url string, body, query map[string]interface{}, ep *schema.Endpoint) error {
	if method == "" || url == "" {
		return requestViolation(ReasonPrecondition, "", "Method and URL are required")
	}
	if ep == nil {
		return requestViolation(ReasonPrecondition, "", "Endpoint schema is required")
	}

	if err := validateQuery(query, ep.QueryParams); err != nil {
		return err
	}
	if schema.Mutating(method) {
		if err := validateBody(body, ep.Body); err != nil {
			return err
		}
	}
	return nil
}

func validateQuery(query map[string]interface{}, spec *schema.Fields) error {
	for _, key := range schema.SortedKeys(query) {
		if !spec.Has(key) {
			return requestViolation(ReasonUnknownField, key,
				"Unexpected query parameter: '%s'. Allowed parameters: %s", key, strings.Join(spec.Names(), ", "))
		}
	}

	for _, name := range spec.Names() {
		f, _ := spec.Get(name)
		value, present := query[name]
		if f.Required && blank(value, present) {
			return requestViolation(ReasonMissingRequired, name, "Missing required query parameter: %s", name)
		}
		if absent(value, present) {
			continue
		}
		if !f.Type.Accepts(value) {
			return requestViolation(ReasonTypeMismatch, name,
				"Invalid type for query parameter %s: expected %s, got %s", name, f.Type, schema.KindOf(value))
		}
	}
	return nil
}

func validateBody(body map[string]interface{}, spec *schema.Fields) error {
	flattened := flattenedKeys(spec)
	for _, key := range schema.SortedKeys(body) {
		if !spec.Has(key) && !flattened.Has(key) {
			return requestViolation(ReasonUnknownField, key,
				"Invalid field '%s' provided. Allowed fields: %s", key, strings.Join(spec.Names(), ", "))
		}
	}

	for _, name := range spec.Names() {
		f, _ := spec.Get(name)
		value, present := body[name]
		if f.Required && blank(value, present) {
			return requestViolation(ReasonMissingRequired, name, "Missing required body field: %s", name)
		}
		if absent(value, present) {
			continue
		}
		if !f.Type.Accepts(value) {
			return requestViolation(ReasonTypeMismatch, name,
				"Invalid type for body field '%s': expected %s, got %s", name, f.Type, schema.KindOf(value))
		}
		if f.Type == schema.Object && f.Nested != nil {
			obj, _ := schema.ObjectOf(value)
			if err := validateNested(obj, f.Nested, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNested(obj map[string]interface{}, spec *schema.Fields, parent string) error {
	for _, key := range schema.SortedKeys(obj) {
		if !spec.Has(key) {
			return requestViolation(ReasonUnknownField, parent+"."+key,
				"Invalid nested field '%s' inside '%s'. Allowed fields: %s", key, parent, strings.Join(spec.Names(), ", "))
		}
	}

	for _, name := range spec.Names() {
		f, _ := spec.Get(name)
		value, present := obj[name]
		path := parent + "." + name
		if f.Required && blank(value, present) {
			return requestViolation(ReasonMissingRequired, path,
				"Missing required nested field '%s' inside '%s'.", name, parent)
		}
		if absent(value, present) {
			continue
		}
		if !f.Type.Accepts(value) {
			return requestViolation(ReasonTypeMismatch, path,
				"Invalid type for nested field '%s' inside '%s'. Expected %s, got %s", name, parent, f.Type, schema.KindOf(value))
		}
		if f.Type == schema.Object && f.Nested != nil {
			child, _ := schema.ObjectOf(value)
			if err := validateNested(child, f.Nested, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// flattenedKeys collects the nested keys of object-typed body fields. Such
// keys are also accepted at the top level of a body.
func flattenedKeys(spec *schema.Fields) stringset.Set {
	keys := stringset.New()
	for _, name := range spec.Names() {
		f, _ := spec.Get(name)
		if f.Type != schema.Object || f.Nested == nil {
			continue
		}
		for _, nested := range f.Nested.Names() {
			keys.Add(nested)
		}
	}
	return keys
}

// absent treats a missing key and an explicit nil alike.
func absent(value interface{}, present bool) bool {
	return !present || value == nil
}

// blank is absent, or the empty string.
func blank(value interface{}, present bool) bool {
	if absent(value, present) {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
