// Package endpoints is the registry of upstream endpoint schemas. The
// built-in tables are embedded from tables/*.yaml.
package endpoints

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fewlinesco/rampsdk/contract"
	"github.com/fewlinesco/rampsdk/schema"
)

//go:embed tables/*.yaml
var tables embed.FS

// Registry maps endpoint ids to checked, read-only schemas.
type Registry struct {
	byID map[string]*schema.Endpoint
	ids  []string
}

type tableFile struct {
	Endpoints []*schema.Endpoint `yaml:"endpoints"`
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded tables. It panics if
// the embedded tables do not load, which the package tests rule out.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = LoadFS(tables, "tables")
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultRegistry
}

// New builds a registry from already decoded endpoints. Every endpoint is
// checked and ids must be unique.
func New(eps ...*schema.Endpoint) (*Registry, error) {
	r := &Registry{byID: make(map[string]*schema.Endpoint, len(eps))}
	for _, ep := range eps {
		if ep == nil {
			return nil, errors.New("nil endpoint")
		}
		if err := contract.CheckEndpoint(ep); err != nil {
			return nil, err
		}
		if _, dup := r.byID[ep.ID]; dup {
			return nil, fmt.Errorf("endpoint %s declared twice", ep.ID)
		}
		r.byID[ep.ID] = ep
		r.ids = append(r.ids, ep.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// Load builds a registry from YAML table files on disk.
func Load(files ...string) (*Registry, error) {
	var all []*schema.Endpoint
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		eps, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		all = append(all, eps...)
	}
	return New(all...)
}

// LoadFS builds a registry from every .yaml file directly under dir in fsys.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var all []*schema.Endpoint
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		eps, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		all = append(all, eps...)
	}
	return New(all...)
}

// Parse decodes one table file. Unknown endpoint attributes are rejected.
func Parse(r io.Reader) ([]*schema.Endpoint, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var tf tableFile
	if err := dec.Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return tf.Endpoints, nil
}

// Lookup returns the endpoint registered under id.
func (r *Registry) Lookup(id string) (*schema.Endpoint, bool) {
	ep, ok := r.byID[id]
	return ep, ok
}

// IDs returns the registered ids in lexical order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *Registry) Len() int {
	return len(r.ids)
}
