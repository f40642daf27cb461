package transport

import (
	"context"

	relay "github.com/relayrpc/relay"
	"github.com/relayrpc/relay/metadata"
)

// EndpointCaller adapts an Endpoint's raw byte-oriented Call into
// relay.Caller, the interface Rpc uses, handling request metadata
// serialization and response status extraction so generated client stubs
// never see raw headers.
type EndpointCaller struct {
	endpoint *Endpoint
}

// NewEndpointCaller wraps endpoint as a relay.Caller.
func NewEndpointCaller(endpoint *Endpoint) *EndpointCaller {
	return &EndpointCaller{endpoint: endpoint}
}

// Call implements relay.Caller.
func (c *EndpointCaller) Call(ctx context.Context, method string, req *relay.Request[relay.Body]) (*relay.Response[relay.Body], error) {
	body, _ := req.Msg.Data()

	respHeader, respBody, trailer, statusCode, err := c.endpoint.Call(ctx, method, req.Metadata.IntoHeaders(), body)
	if err != nil {
		return nil, relay.StatusFromIOError(err)
	}

	if status, ok := relay.InferStatus(trailer, statusCode); ok && status.Code() != relay.CodeOK {
		return nil, status
	}

	return &relay.Response[relay.Body]{
		Msg:      relay.NewBody(respBody),
		Metadata: metadata.FromHeaders(respHeader),
	}, nil
}
