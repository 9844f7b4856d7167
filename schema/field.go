package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Field describes one request or response field.
//
// Request fields use Type, Required and Nested. Response fields also carry
// Source, a dotted path into the upstream payload, and an optional default.
type Field struct {
	Source       string
	Type         Kind
	Required     bool
	DefaultValue interface{}
	// HasDefault is set when a default was declared, including an explicit null.
	HasDefault bool
	Nested     *Fields
}

// Input returns a request field.
func Input(t Kind, required bool) *Field {
	return &Field{Type: t, Required: required}
}

// Output returns a response field read from source.
func Output(source string, t Kind, required bool) *Field {
	return &Field{Source: source, Type: t, Required: required}
}

// WithDefault declares v as the field's default value.
func (f *Field) WithDefault(v interface{}) *Field {
	f.DefaultValue = v
	f.HasDefault = true
	return f
}

// WithNested declares the shape of an object value or of each array element.
func (f *Field) WithNested(fs *Fields) *Field {
	f.Nested = fs
	return f
}

func (f *Field) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if f.Source != "" {
		buf.WriteString(`"source":`)
		writeJSON(&buf, f.Source)
		buf.WriteByte(',')
	}
	buf.WriteString(`"type":`)
	writeJSON(&buf, string(f.Type))
	buf.WriteString(`,"isRequired":`)
	writeJSON(&buf, f.Required)
	if f.HasDefault {
		buf.WriteString(`,"defaultValue":`)
		writeJSON(&buf, f.DefaultValue)
	}
	if f.Nested != nil {
		nested, err := f.Nested.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"nestedFields":`)
		buf.Write(nested)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the field as compact JSON.
func (f *Field) String() string {
	b, err := f.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%+v", *f)
	}
	return string(b)
}

func writeJSON(buf *bytes.Buffer, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte(strconv.Quote(fmt.Sprint(v)))
	}
	buf.Write(b)
}

func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field spec must be a mapping", value.Line)
	}

	*f = Field{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "source":
			if err := val.Decode(&f.Source); err != nil {
				return err
			}
		case "type":
			var t string
			if err := val.Decode(&t); err != nil {
				return err
			}
			f.Type = Kind(t)
		case "isRequired":
			required, err := decodeRequired(val)
			if err != nil {
				return err
			}
			f.Required = required
		case "defaultValue":
			var raw interface{}
			if err := val.Decode(&raw); err != nil {
				return err
			}
			def, err := jsonValue(raw)
			if err != nil {
				return fmt.Errorf("line %d: defaultValue: %w", val.Line, err)
			}
			f.DefaultValue = def
			f.HasDefault = true
		case "nestedFields":
			f.Nested = NewFields()
			if err := val.Decode(f.Nested); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: unknown field spec key %q", key.Line, key.Value)
		}
	}
	return nil
}

// jsonValue converts a YAML-decoded value into the shape encoding/json
// produces, so defaults and upstream payloads compare alike.
func jsonValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeRequired accepts both YAML booleans and the strings "true"/"false".
func decodeRequired(n *yaml.Node) (bool, error) {
	var raw interface{}
	if err := n.Decode(&raw); err != nil {
		return false, err
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("line %d: isRequired: %q is not a boolean", n.Line, v)
		}
		return b, nil
	case nil:
		return false, nil
	}
	return false, fmt.Errorf("line %d: isRequired: unexpected %T", n.Line, raw)
}
