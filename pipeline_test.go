package relay

import (
	"context"
	"testing"
)

// loopbackCaller wires a client Rpc directly to a server Handler in
// memory, without any real transport, so the pipeline tests don't depend
// on the transport package.
type loopbackCaller struct {
	handler Handler
}

func (c *loopbackCaller) Call(ctx context.Context, method string, req *Request[Body]) (*Response[Body], error) {
	return c.handler.Handle(ctx, req)
}

func TestUnaryPipelineRoundTrip(t *testing.T) {
	svc := UnaryHandlerFunc[fakeVTMessage, fakeVTMessage](
		func(ctx context.Context, req *Request[fakeVTMessage]) (*Response[fakeVTMessage], error) {
			return NewResponse(fakeVTMessage{Value: "echo: " + req.Msg.Value}), nil
		},
	)

	caller := &loopbackCaller{handler: NewServerRpc[fakeVTMessage, fakeVTMessage](svc, protoCodec{})}
	rpc := NewRpc[fakeVTMessage, fakeVTMessage](caller, protoCodec{}, "/test.Service/Method")

	res, err := rpc.Unary(context.Background(), NewRequest(fakeVTMessage{Value: "hi"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.Msg.Value != "echo: hi" {
		t.Errorf("got %q, want %q", res.Msg.Value, "echo: hi")
	}
}

func TestUnaryPipelinePropagatesRealStatus(t *testing.T) {
	svc := UnaryHandlerFunc[fakeVTMessage, fakeVTMessage](
		func(ctx context.Context, req *Request[fakeVTMessage]) (*Response[fakeVTMessage], error) {
			return nil, NotFound("no such thing")
		},
	)

	caller := &loopbackCaller{handler: NewServerRpc[fakeVTMessage, fakeVTMessage](svc, protoCodec{})}
	rpc := NewRpc[fakeVTMessage, fakeVTMessage](caller, protoCodec{}, "/test.Service/Method")

	_, err := rpc.Unary(context.Background(), NewRequest(fakeVTMessage{Value: "hi"}))
	if err == nil {
		t.Fatal("expected an error")
	}

	status := AsStatus(err)
	if status.Code() != CodeNotFound {
		t.Errorf("code = %v, want CodeNotFound (not the collapsed OutOfRange bug)", status.Code())
	}
	if status.Message() != "no such thing" {
		t.Errorf("message = %q, want %q", status.Message(), "no such thing")
	}
}

func TestServerRpcRejectsMissingBody(t *testing.T) {
	svc := UnaryHandlerFunc[fakeVTMessage, fakeVTMessage](
		func(ctx context.Context, req *Request[fakeVTMessage]) (*Response[fakeVTMessage], error) {
			t.Fatal("handler should not be invoked without a body")
			return nil, nil
		},
	)

	rpc := NewServerRpc[fakeVTMessage, fakeVTMessage](svc, protoCodec{})
	_, err := rpc.Handle(context.Background(), &Request[Body]{})
	if err == nil {
		t.Fatal("expected an error for a missing body")
	}
	if AsStatus(err).Code() != CodeInvalidArgument {
		t.Errorf("code = %v, want CodeInvalidArgument", AsStatus(err).Code())
	}
}
