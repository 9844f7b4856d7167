package schema

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fields is an ordered set of named field specs. Declaration order is kept
// so diagnostics list allowed keys the way the schema author wrote them.
// A nil *Fields is an empty, undeclared set.
type Fields struct {
	names  []string
	byName map[string]*Field
}

func NewFields() *Fields {
	return &Fields{byName: make(map[string]*Field)}
}

// Set adds or replaces a field. Replacing keeps the original position.
func (fs *Fields) Set(name string, f *Field) *Fields {
	if fs.byName == nil {
		fs.byName = make(map[string]*Field)
	}
	if _, ok := fs.byName[name]; !ok {
		fs.names = append(fs.names, name)
	}
	fs.byName[name] = f
	return fs
}

func (fs *Fields) Get(name string) (*Field, bool) {
	if fs == nil {
		return nil, false
	}
	f, ok := fs.byName[name]
	return f, ok
}

func (fs *Fields) Has(name string) bool {
	_, ok := fs.Get(name)
	return ok
}

func (fs *Fields) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.names)
}

// Names returns the field names in declaration order.
func (fs *Fields) Names() []string {
	if fs == nil {
		return nil
	}
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

func (fs *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range fs.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, name)
		buf.WriteByte(':')
		b, err := fs.byName[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (fs *Fields) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", value.Line)
	}
	*fs = Fields{byName: make(map[string]*Field, len(value.Content)/2)}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if fs.Has(key.Value) {
			return fmt.Errorf("line %d: duplicate field %q", key.Line, key.Value)
		}
		f := new(Field)
		if err := val.Decode(f); err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}
		fs.Set(key.Value, f)
	}
	return nil
}

// CheckInput verifies a request schema: known types, and nested fields only
// under objects. Response-only attributes are rejected.
func (fs *Fields) CheckInput(path string) error {
	for _, name := range fs.Names() {
		f := fs.byName[name]
		p := joinPath(path, name)
		if f == nil {
			return fmt.Errorf("%s: empty field spec", p)
		}
		if !f.Type.Declarable() {
			return fmt.Errorf("%s: unknown type %q", p, f.Type)
		}
		if f.Source != "" || f.HasDefault {
			return fmt.Errorf("%s: source and defaultValue are only valid in output_fields", p)
		}
		if f.Nested != nil {
			if f.Type != Object {
				return fmt.Errorf("%s: nestedFields requires type object, got %s", p, f.Type)
			}
			if err := f.Nested.CheckInput(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckOutput verifies a response schema.
func (fs *Fields) CheckOutput(path string) error {
	for _, name := range fs.Names() {
		f := fs.byName[name]
		p := joinPath(path, name)
		if f == nil {
			return fmt.Errorf("%s: empty field spec", p)
		}
		if !f.Type.Declarable() {
			return fmt.Errorf("%s: unknown type %q", p, f.Type)
		}
		if f.Source == "" {
			return fmt.Errorf("%s: missing source", p)
		}
		for _, seg := range strings.Split(f.Source, ".") {
			if seg == "" {
				return fmt.Errorf("%s: malformed source path %q", p, f.Source)
			}
		}
		if f.Required && f.HasDefault {
			return fmt.Errorf("%s: required field declares a defaultValue", p)
		}
		if f.Nested != nil {
			if f.Type != Object && f.Type != Array {
				return fmt.Errorf("%s: nestedFields requires type object or array, got %s", p, f.Type)
			}
			if err := f.Nested.CheckOutput(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
