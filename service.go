package relay

import "context"

// Service is implemented by a unary RPC handler for a single method. Req
// and Res are the decoded message types; generated server code adapts a
// user's method implementation into a Service via a thin wrapper per
// method.
//
// This collapses the original implementation's generic Service trait
// (operating over a request/response pair, implemented polymorphically for
// both client stubs and server handlers) into a single generic interface,
// since Go generics monomorphize per instantiation rather than needing a
// trait-object split.
type Service[Req, Res any] interface {
	Call(ctx context.Context, req *Request[Req]) (*Response[Res], error)
}

// UnaryHandlerFunc adapts an ordinary function into a Service.
type UnaryHandlerFunc[Req, Res any] func(ctx context.Context, req *Request[Req]) (*Response[Res], error)

// Call implements Service.
func (f UnaryHandlerFunc[Req, Res]) Call(ctx context.Context, req *Request[Req]) (*Response[Res], error) {
	return f(ctx, req)
}

// Caller is the type-erased transport boundary a generated client stub
// calls through: a single path identifying the method, and raw encoded
// bytes in both directions. This mirrors SimpleInstantService from the
// original implementation, kept separate from Service because the
// transport layer never sees decoded message types.
type Caller interface {
	Call(ctx context.Context, method string, req *Request[Body]) (*Response[Body], error)
}

// CallerFunc adapts a plain function into a Caller.
type CallerFunc func(ctx context.Context, method string, req *Request[Body]) (*Response[Body], error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, method string, req *Request[Body]) (*Response[Body], error) {
	return f(ctx, method, req)
}

// RouteAdder is implemented by a server-side dispatch table that
// generated code registers methods into, decoupling codegen output from
// any one transport package's concrete route-table type.
type RouteAdder interface {
	AddRoute(path string, handler Handler)
}

// Handler is the type-erased transport boundary a generated server
// dispatch table calls through for a single registered method.
type Handler interface {
	Handle(ctx context.Context, req *Request[Body]) (*Response[Body], error)
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, req *Request[Body]) (*Response[Body], error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *Request[Body]) (*Response[Body], error) {
	return f(ctx, req)
}
