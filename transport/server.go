package transport

import (
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	relay "github.com/relayrpc/relay"
	"github.com/relayrpc/relay/metadata"
)

// Routes is a method-path dispatch table: one relay.Handler per
// "/<package>.<Service>/<Method>" path. Grounded on the original
// implementation's transport::server::Routes, which holds the same kind of
// table keyed by path.
type Routes map[string]relay.Handler

// AddRoute implements relay.RouteAdder, so generated Register<Service>Server
// functions can populate a Routes table without importing this package by
// its concrete type.
func (rs Routes) AddRoute(path string, handler relay.Handler) {
	rs[path] = handler
}

// Router pairs a set of Routes with the logger a Server needs to serve
// them. Grounded on transport::server::Router.
type Router struct {
	routes Routes
	logger *zap.Logger
}

// NewRouter builds a Router over routes, logging through logger (or a noop
// logger if nil).
func NewRouter(routes Routes, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{routes: routes, logger: logger}
}

// ServeHTTP implements http.Handler, so a Router can be served directly by
// an h2c-wrapped http.Server or dropped into any other HTTP/2 stack (such
// as gin's router via gin.WrapH).
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, ok := rt.routes[req.URL.Path]
	if !ok {
		w.Header().Set("Grpc-Status", "12") // CodeUnimplemented
		w.WriteHeader(http.StatusNotFound)
		return
	}

	md := metadata.FromHeaders(req.Header.Clone())

	body, err := io.ReadAll(req.Body)
	if err != nil {
		rt.logger.Warn("reading request body", zap.String("path", req.URL.Path), zap.Error(err))
		status := relay.StatusFromIOError(err)
		status.AddHeader(w.Header())
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/grpc")
	w.Header().Set("Trailer", "Grpc-Status, Grpc-Message, Grpc-Status-Details-Bin")
	w.WriteHeader(http.StatusOK)

	res, callErr := handler.Handle(req.Context(), &relay.Request[relay.Body]{
		Msg:      relay.NewBody(body),
		Metadata: md,
	})
	if callErr != nil {
		status := relay.AsStatus(callErr)
		status.AddHeader(w.Header())
		return
	}

	if data, ok := res.Msg.Data(); ok {
		_, _ = w.Write(data)
	}
	relay.New(relay.CodeOK, "").AddHeader(w.Header())
}

// Server accepts raw TCP connections and serves each on its own goroutine,
// handing HTTP/2 framing to an h2c-wrapped Router. Grounded on the original
// implementation's transport::server::Server::serve, which likewise spawns
// one detached task per accepted connection and never multiplexes
// connection acceptance across a worker pool.
type Server struct {
	router *Router
	logger *zap.Logger
}

// NewServer builds a Server dispatching through router.
func NewServer(router *Router, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{router: router, logger: logger}
}

// Serve accepts connections from ln until it errors or the listener is
// closed, handling each on its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	h2s := &http2.Server{}
	handler := h2c.NewHandler(s.router, h2s)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go func(c net.Conn) {
			defer c.Close()
			h2s.ServeConn(c, &http2.ServeConnOpts{Handler: handler})
		}(conn)
	}
}
