// Package typegen renders Go type declarations for the canonical output of
// an endpoint, so callers can decode formatted responses into structs.
package typegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/fewlinesco/rampsdk/internal/stringset"
	"github.com/fewlinesco/rampsdk/schema"
)

type Options struct {
	Package string
	// RootType names the top-level type; default is derived from the endpoint id.
	RootType string
	// Prefix is prepended to every non-root type name.
	Prefix string
	// Generator is named in the "Code generated" header.
	Generator string
}

type structField struct {
	Name         string
	TypeRef      string
	TypePrefix   string
	Nullable     bool
	PropertyName string
	Required     bool
}

type goType struct {
	Name       string
	TypeRef    string
	TypePrefix string
	Fields     []structField
	Comment    string

	parentPath   string
	origTypeName string
}

type generator struct {
	opts        Options
	types       map[string]goType
	typesByName map[string]stringset.Set
}

// Generate returns gofmt'ed source declaring the output types of ep.
func Generate(ep *schema.Endpoint, opts Options) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "main"
	}
	if opts.Generator == "" {
		opts.Generator = "typegen"
	}
	if opts.RootType == "" {
		opts.RootType = Identifier(ep.ID, true)
	}
	if opts.RootType == "" {
		return nil, fmt.Errorf("endpoint %q: can't generate type without name", ep.ID)
	}

	g := &generator{
		opts:        opts,
		types:       make(map[string]goType),
		typesByName: make(map[string]stringset.Set),
	}

	root := goType{
		Name:         opts.RootType,
		Comment:      fmt.Sprintf("%s is the formatted response of %s.", opts.RootType, ep.ID),
		origTypeName: ep.ID,
	}
	array := ep.ResponseType == "array"
	switch {
	case ep.Output.Len() == 0 && array:
		root.TypePrefix = "[]interface{}"
	case ep.Output.Len() == 0:
		root.TypePrefix = "interface{}"
	case array:
		root.TypePrefix = "[]"
		root.TypeRef = g.processFields(ep.Output, singularize(ep.ID), "#/items", "#")
	default:
		root.TypePrefix = "struct"
		root.Fields = g.fields(ep.Output, "#")
	}
	g.add("#", root)

	if err := g.dedupe(); err != nil {
		return nil, err
	}

	var src bytes.Buffer
	fmt.Fprintf(&src, "// Code generated by %s; DO NOT EDIT.\n\n", opts.Generator)
	fmt.Fprintf(&src, "package %s\n\n", opts.Package)
	for _, gt := range g.sorted() {
		g.print(&src, gt)
		src.WriteString("\n")
	}

	formatted, err := format.Source(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gofmt: %w\n%s", err, src.String())
	}
	return formatted, nil
}

func (g *generator) typeName(origName string) string {
	return g.opts.Prefix + Identifier(origName, true)
}

func (g *generator) add(path string, gt goType) {
	g.types[path] = gt
	g.addName(gt.Name, path)
}

func (g *generator) addName(name, path string) {
	if g.typesByName[name] == nil {
		g.typesByName[name] = stringset.New()
	}
	g.typesByName[name].Add(path)
}

// processFields declares a struct for fs and returns its path.
func (g *generator) processFields(fs *schema.Fields, origName, path, parentPath string) string {
	g.add(path, goType{
		Name:         g.typeName(origName),
		TypePrefix:   "struct",
		Fields:       g.fields(fs, path),
		parentPath:   parentPath,
		origTypeName: origName,
	})
	return path
}

func (g *generator) fields(fs *schema.Fields, path string) []structField {
	var out []structField
	for _, name := range fs.Names() {
		f, _ := fs.Get(name)
		sf := structField{
			Name:         Identifier(name, true),
			PropertyName: name,
			Required:     f.Required,
			Nullable:     !f.Required && !f.HasDefault,
		}
		refPath := path + "/" + name
		nested := f.Nested != nil && f.Nested.Len() > 0

		switch f.Type {
		case schema.Object:
			if nested {
				sf.TypeRef = g.processFields(f.Nested, name, refPath, path)
			} else {
				sf.TypePrefix = "map[string]interface{}"
			}
		case schema.Array:
			if nested {
				sf.TypePrefix = "[]"
				sf.TypeRef = g.processFields(f.Nested, singularize(name), refPath+"/items", path)
			} else {
				sf.TypePrefix = "[]interface{}"
			}
		default:
			sf.TypePrefix = goTypeOf(f.Type)
		}
		out = append(out, sf)
	}
	return out
}

func goTypeOf(k schema.Kind) string {
	switch k {
	case schema.String:
		return "string"
	case schema.Number:
		return "float64"
	case schema.Boolean:
		return "bool"
	default:
		return "interface{}"
	}
}

// dedupe renames clashing types by prefixing their parent's name, parents
// first so names don't stutter.
func (g *generator) dedupe() error {
	for round := 0; len(g.typesByName) > 0; round++ {
		if round > maxDedupeRounds {
			return fmt.Errorf("can't disambiguate %s", stringset.New(keys(g.typesByName)...))
		}

		// clear all singles first; otherwise some types will not be disambiguated
		for name, dupes := range g.typesByName {
			if len(dupes) == 1 {
				delete(g.typesByName, name)
			}
		}

		for name, dupes := range g.typesByName {
			delete(g.typesByName, name)

			renamed := 0
			for _, dupePath := range dupes.Sorted() {
				gt := g.types[dupePath]
				if gt.parentPath == "" {
					// the root keeps its requested name
					continue
				}
				parent := g.types[gt.parentPath]

				if _, pending := g.typesByName[parent.Name]; pending {
					g.addName(gt.Name, dupePath)
					renamed++
					continue
				}

				if parent.origTypeName == "" {
					return fmt.Errorf("can't disambiguate %s: %s", name, dupes)
				}

				gt.origTypeName = parent.origTypeName + "-" + gt.origTypeName
				gt.Name = g.typeName(gt.origTypeName)
				g.types[dupePath] = gt
				g.addName(gt.Name, dupePath)
				renamed++
			}
			if renamed == 0 {
				return fmt.Errorf("can't disambiguate %s: %s", name, dupes)
			}
		}
	}
	return nil
}

const maxDedupeRounds = 8

func keys(m map[string]stringset.Set) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (g *generator) sorted() []goType {
	out := make([]goType, 0, len(g.types))
	for _, gt := range g.types {
		out = append(out, gt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *generator) ref(prefix, ref string) string {
	if t, ok := g.types[ref]; ok {
		return prefix + t.Name
	}
	return prefix
}

func (g *generator) print(buf *bytes.Buffer, gt goType) {
	if gt.Comment != "" {
		fmt.Fprintf(buf, "// %s\n", gt.Comment)
	}
	typeStr := g.ref(gt.TypePrefix, gt.TypeRef)
	fmt.Fprintf(buf, "type %s %s", gt.Name, typeStr)
	if typeStr != "struct" {
		buf.WriteString("\n")
		return
	}
	buf.WriteString(" {\n")
	for _, sf := range gt.Fields {
		sfTypeStr := g.ref(sf.TypePrefix, sf.TypeRef)
		if sf.Nullable && pointable(sfTypeStr) {
			sfTypeStr = "*" + sfTypeStr
		}

		tagString := "`json:\"" + sf.PropertyName
		if !sf.Required {
			tagString += ",omitempty"
		}
		tagString += "\"`"
		fmt.Fprintf(buf, "%s %s %s\n", sf.Name, sfTypeStr, tagString)
	}
	buf.WriteString("}\n")
}

func pointable(typeStr string) bool {
	return typeStr != "interface{}" &&
		!strings.HasPrefix(typeStr, "[]") &&
		!strings.HasPrefix(typeStr, "map[")
}
