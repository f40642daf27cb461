package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	relay "github.com/relayrpc/relay"
)

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, req *relay.Request[relay.Body]) (*relay.Response[relay.Body], error) {
	data, _ := req.Msg.Data()
	return &relay.Response[relay.Body]{Msg: relay.NewBody(data)}, nil
}

type failingHandler struct{}

func (failingHandler) Handle(ctx context.Context, req *relay.Request[relay.Body]) (*relay.Response[relay.Body], error) {
	return nil, relay.NotFound("nope")
}

func TestRouterServeHTTPDispatchesByPath(t *testing.T) {
	routes := Routes{"/test.Service/Echo": echoHandler{}}
	router := NewRouter(routes, nil)

	req := httptest.NewRequest(http.MethodPost, "/test.Service/Echo", strings.NewReader("payload"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Body.String() != "payload" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "payload")
	}
	if got := rec.Header().Get("Grpc-Status"); got != "0" {
		t.Errorf("Grpc-Status = %q, want \"0\"", got)
	}
}

func TestRouterServeHTTPUnknownPath(t *testing.T) {
	router := NewRouter(Routes{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := rec.Header().Get("Grpc-Status"); got != "12" {
		t.Errorf("Grpc-Status = %q, want \"12\" (Unimplemented)", got)
	}
}

func TestRouterServeHTTPHandlerErrorSetsTrailerStatus(t *testing.T) {
	routes := Routes{"/test.Service/Fail": failingHandler{}}
	router := NewRouter(routes, nil)

	req := httptest.NewRequest(http.MethodPost, "/test.Service/Fail", strings.NewReader(""))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Grpc-Status"); got != "5" {
		t.Errorf("Grpc-Status = %q, want \"5\" (NotFound)", got)
	}
	if got := rec.Header().Get("Grpc-Message"); got != "nope" {
		t.Errorf("Grpc-Message = %q, want \"nope\"", got)
	}
}

func TestRoutesAddRoute(t *testing.T) {
	routes := make(Routes)
	routes.AddRoute("/a/b", echoHandler{})
	if _, ok := routes["/a/b"]; !ok {
		t.Error("AddRoute did not register the handler")
	}
}
