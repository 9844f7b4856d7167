package contract

import (
	"fmt"

	"github.com/fewlinesco/rampsdk/schema"
)

// FormatResponse turns a decoded upstream payload into the canonical result
// declared by ep.Output. The result is a map[string]interface{} for an object
// root or a []interface{} of such maps for an array root. With no declared
// output fields the root is returned untouched.
func FormatResponse(payload interface{}, ep *schema.Endpoint) (interface{}, error) {
	if ep == nil {
		return nil, responseViolation(ReasonPrecondition, "", "Endpoint schema is required")
	}

	root, found := schema.Lookup(payload, ep.ResponseRoot)
	if ep.ResponseRoot == "" || !found || schema.Falsy(root) {
		return nil, responseViolation(ReasonMissingRoot, ep.ResponseRoot,
			"Missing expected response root field: %s", ep.ResponseRoot)
	}

	detect, err := conflictDetector(ep.Conflict)
	if err != nil {
		return nil, err
	}
	if detect != nil {
		if conflict := detect(root); conflict != nil {
			return nil, conflict
		}
	}

	if ep.Output.Len() == 0 {
		return root, nil
	}

	if items, ok := schema.ArrayOf(root); ok {
		out := make([]interface{}, len(items))
		for i, item := range items {
			formatted, err := extract(item, ep.Output, fmt.Sprintf("[%d]", i))
			if err != nil {
				return nil, err
			}
			out[i] = formatted
		}
		return out, nil
	}

	return extract(root, ep.Output, "")
}

// extract builds a new object holding only the keys declared in spec.
func extract(item interface{}, spec *schema.Fields, path string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, spec.Len())

	for _, key := range spec.Names() {
		f, _ := spec.Get(key)
		p := joinPath(path, key)

		value, found := schema.Lookup(item, f.Source)
		if value == nil {
			found = false
		}

		defaulted := false
		if !found {
			switch {
			case f.Required:
				return nil, responseViolation(ReasonMissingRequired, p, "Missing required field: %s %s", key, f)
			case f.HasDefault:
				value = schema.CloneJSON(f.DefaultValue)
				defaulted = true
			}
		}

		if found && !f.Type.Accepts(value) {
			return nil, responseViolation(ReasonTypeMismatch, p,
				"Invalid type for field %s: expected %s, got %s %v", key, f.Type, schema.KindOf(value), value)
		}

		switch {
		case !found || defaulted || f.Nested == nil:
			out[key] = value
		case f.Type == schema.Object:
			nested, err := extract(value, f.Nested, p)
			if err != nil {
				return nil, err
			}
			out[key] = nested
		case f.Type == schema.Array:
			elems, _ := schema.ArrayOf(value)
			items := make([]interface{}, len(elems))
			for i, elem := range elems {
				nested, err := extract(elem, f.Nested, fmt.Sprintf("%s[%d]", p, i))
				if err != nil {
					return nil, err
				}
				items[i] = nested
			}
			out[key] = items
		default:
			out[key] = value
		}
	}

	return out, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
