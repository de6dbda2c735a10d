package bwire

import (
	"slices"
	"sync"

	"github.com/advdv/bwire/internal/pathtmpl"
	"github.com/cockroachdb/errors"
)

// Method is one of the request methods routes can be registered for.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Methods lists every routable method.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete}

// ErrUnknownMethod is returned by [ParseMethod] for methods that cannot be routed.
var ErrUnknownMethod = errors.New("unknown method")

// ParseMethod turns s into a [Method]. Matching is case-sensitive, as on the wire.
func ParseMethod(s string) (Method, error) {
	if m := Method(s); slices.Contains(Methods, m) {
		return m, nil
	}
	return "", errors.Wrapf(ErrUnknownMethod, "%q", s)
}

// Route is a registered template with its handler.
type Route struct {
	Method   Method
	Template string
	Handler  Handler

	tmpl *pathtmpl.Template
}

// Match reports whether the decoded path matches the route's template.
func (rt Route) Match(path string) bool { return rt.tmpl.Match(path) }

// RouteTable maps methods to route templates. It may be read and written concurrently, handlers are never invoked
// while the table is locked. When several templates match a path the one registered first wins.
type RouteTable struct {
	mu     sync.RWMutex
	routes map[Method][]Route
}

// NewRouteTable inits an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[Method][]Route)}
}

// Insert compiles template and registers h for it under method.
func (t *RouteTable) Insert(method Method, template string, h Handler) error {
	if _, err := ParseMethod(string(method)); err != nil {
		return err
	}

	tmpl, err := pathtmpl.Parse(template)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.routes[method] = append(t.routes[method], Route{
		Method:   method,
		Template: template,
		Handler:  h,
		tmpl:     tmpl,
	})

	return nil
}

// Resolve returns the handler of the first route registered under method whose template matches path.
func (t *RouteTable) Resolve(method, path string) (Handler, bool) {
	t.mu.RLock()
	candidates := t.routes[Method(method)]
	t.mu.RUnlock()

	// appends never modify the elements a previously read slice header can see
	for _, rt := range candidates {
		if rt.Match(path) {
			return rt.Handler, true
		}
	}

	return nil, false
}

// Routes returns every registered route in registration order, grouped by method.
func (t *RouteTable) Routes() []Route {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var all []Route
	for _, m := range Methods {
		all = append(all, t.routes[m]...)
	}

	return all
}
