package relay

import (
	"context"
)

// Rpc is the client-side unary call pipeline for a single method: encode
// the request, hand it to a Caller, decode the response.
//
// The original implementation's equivalent (controller::client::Rpc::unary)
// collapses every failure branch — encode error, transport error, missing
// response body, decode error — into a single hardcoded
// Status{OutOfRange, "error"}, discarding whatever status the transport
// actually produced. Rpc.Unary instead propagates the real status: a
// transport failure keeps its own code via AsStatus, and only the encode/
// decode/missing-body branches (which have no transport-provided status of
// their own) synthesize one, and they synthesize CodeInternal rather than
// CodeOutOfRange.
type Rpc[Req, Res any] struct {
	caller Caller
	codec  Codec
	path   string
}

// NewRpc constructs an Rpc for a single method path.
func NewRpc[Req, Res any](caller Caller, codec Codec, path string) *Rpc[Req, Res] {
	return &Rpc[Req, Res]{caller: caller, codec: codec, path: path}
}

// Unary performs one unary call.
func (r *Rpc[Req, Res]) Unary(ctx context.Context, req *Request[Req]) (*Response[Res], error) {
	encoded, err := r.codec.Marshal(&req.Msg)
	if err != nil {
		return nil, Newf(CodeInternal, "failed to encode request: %v", err)
	}

	bodyReq := &Request[Body]{Msg: NewBody(encoded), Metadata: req.Metadata}

	bodyRes, err := r.caller.Call(ctx, r.path, bodyReq)
	if err != nil {
		return nil, AsStatus(err)
	}

	data, ok := bodyRes.Msg.Data()
	if !ok {
		return nil, New(CodeInternal, "server returned no response body")
	}

	var msg Res
	if err := r.codec.Unmarshal(data, &msg); err != nil {
		return nil, Newf(CodeInternal, "failed to decode response: %v", err)
	}

	return &Response[Res]{Msg: msg, Metadata: bodyRes.Metadata}, nil
}
