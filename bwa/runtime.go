package bwa

import "github.com/advdv/bwire"

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *bwa.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bwa.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) CreateItem(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    loc, _ := h.rt.Reverse("get-item", id)
//	    return bwire.NewResponse(201, "Created").AddHeader("Location", loc), nil
//	}
type Runtime[E Environment] struct {
	env E
	srv *bwire.Server
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, srv *bwire.Server) *Runtime[E] {
	return &Runtime[E]{env: env, srv: srv}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the path for a named route with the given parameter values.
// The route must have been registered with a name using Handle/HandleFunc.
func (r *Runtime[E]) Reverse(name string, vals ...string) (string, error) {
	return r.srv.Reverse(name, vals...)
}
