package bwire

import (
	"fmt"
	"slices"
	"sync"

	"github.com/advdv/bwire/internal/pathtmpl"
	"github.com/samber/lo"
)

// Reverser keeps track of named templates and allows building paths.
type Reverser struct {
	mu    sync.RWMutex
	tmpls map[string]*pathtmpl.Template
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{tmpls: make(map[string]*pathtmpl.Template)}
}

// Reverse reverses the named template into a path. Values are percent-encoded.
func (r *Reverser) Reverse(name string, vals ...string) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.tmpls[name]
	names := lo.Keys(r.tmpls)
	r.mu.RUnlock()

	if !ok {
		slices.Sort(names)
		return "", fmt.Errorf("no template named: %q, got: %v", name, names) //nolint:goerr113
	}

	res, err := pathtmpl.Build(tmpl, lo.Map(vals, func(v string, _ int) string { return EncodePath(v) })...)
	if err != nil {
		return "", fmt.Errorf("failed to build: %w", err)
	}

	return res, nil
}

// Named is a convenience method that panics if naming the template fails.
func (r *Reverser) Named(name, str string) string {
	str, err := r.NamedTemplate(name, str)
	if err != nil {
		panic("bwire: " + err.Error())
	}

	return str
}

// NamedTemplate will parse 'str' as a route template while returning it as well.
func (r *Reverser) NamedTemplate(name, str string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tmpls[name]; exists {
		return str, fmt.Errorf("template with name %q already exists", name) //nolint:goerr113
	}

	tmpl, err := pathtmpl.Parse(str)
	if err != nil {
		return str, fmt.Errorf("failed to parse template: %w", err)
	}

	r.tmpls[name] = tmpl

	return str, nil
}
