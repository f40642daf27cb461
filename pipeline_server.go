package relay

import "context"

// ServerRpc adapts a decoded Service[Req, Res] into the transport-level
// Handler a Routes dispatch table calls, the server-side mirror of Rpc.
//
// Grounded on the original implementation's controller::server::Rpc::unary:
// decode the request body, invoke the service, encode the response. Unlike
// the client side there's no hardcoded-status bug to fix here — the
// original's server path already returns Body::new(None) on handler error
// and lets the transport layer attach the real status trailer — so this is
// a closer port.
type ServerRpc[Req, Res any] struct {
	svc   Service[Req, Res]
	codec Codec
}

// NewServerRpc constructs a ServerRpc wrapping svc.
func NewServerRpc[Req, Res any](svc Service[Req, Res], codec Codec) *ServerRpc[Req, Res] {
	return &ServerRpc[Req, Res]{svc: svc, codec: codec}
}

// Handle implements Handler.
func (r *ServerRpc[Req, Res]) Handle(ctx context.Context, req *Request[Body]) (*Response[Body], error) {
	data, ok := req.Msg.Data()
	if !ok {
		return nil, New(CodeInvalidArgument, "request carried no body")
	}

	var msg Req
	if err := r.codec.Unmarshal(data, &msg); err != nil {
		return nil, Newf(CodeInvalidArgument, "failed to decode request: %v", err)
	}

	res, err := r.svc.Call(ctx, &Request[Req]{Msg: msg, Metadata: req.Metadata})
	if err != nil {
		// Propagate the handler's status (or synthesize one) rather than
		// returning a body; the dispatcher attaches it as the trailer.
		return nil, AsStatus(err)
	}

	encoded, err := r.codec.Marshal(&res.Msg)
	if err != nil {
		return nil, Newf(CodeInternal, "failed to encode response: %v", err)
	}

	return &Response[Body]{Msg: NewBody(encoded), Metadata: res.Metadata}, nil
}
