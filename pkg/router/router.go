package router

import (
	"context"
	"net/http"
)

// HandlerFunc is the signature of all domain operations exposed over HTTP.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can enrich the context (e.g.
// with the authenticated user id) or abort the request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// AfterFunc runs between a successful handler and the response write, with
// the response value the handler produced. Returning an error aborts the
// request.
type AfterFunc func(ctx context.Context, resp any) error

// CloserFunc runs after the response has been written, with the error the
// handler chain produced (nil on success).
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux *http.ServeMux
	ctx context.Context

	befores []MiddlewareFunc
	afters  []AfterFunc
	closers []CloserFunc
}

// New creates a root router. The given context must carry the configs,
// logger, database, and token engine; it becomes the base context of every
// request.
func New(ctx context.Context) *Router {
	return &Router{
		mux: http.NewServeMux(),
		ctx: ctx,
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]AfterFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(after AfterFunc) {
	r.afters = append(r.afters, after)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

// Mount attaches a raw http handler, bypassing the request/response
// envelope. Used for protocol endpoints like websocket upgrades.
func (r *Router) Mount(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}
