package relay

import "github.com/relayrpc/relay/metadata"

// Request is an RPC payload paired with its metadata. The zero value isn't
// useful; construct with NewRequest.
type Request[T any] struct {
	// Msg is the decoded request message. Exported directly (rather than
	// behind a getter) so generated handlers can write request.Msg.Field
	// the same way a hand-written connect-style handler would.
	Msg T

	Metadata metadata.Map
}

// NewRequest wraps msg with empty metadata.
func NewRequest[T any](msg T) *Request[T] {
	return &Request[T]{Msg: msg, Metadata: metadata.New()}
}

// MapRequest transforms a Request's message type while preserving its
// metadata, mirroring the original implementation's Request::map.
func MapRequest[T, U any](req *Request[T], f func(T) U) *Request[U] {
	return &Request[U]{Msg: f(req.Msg), Metadata: req.Metadata}
}

// Response is an RPC result paired with its metadata.
type Response[T any] struct {
	Msg      T
	Metadata metadata.Map
}

// NewResponse wraps msg with empty metadata.
func NewResponse[T any](msg T) *Response[T] {
	return &Response[T]{Msg: msg, Metadata: metadata.New()}
}

// MapResponse transforms a Response's message type while preserving its
// metadata.
func MapResponse[T, U any](res *Response[T], f func(T) U) *Response[U] {
	return &Response[U]{Msg: f(res.Msg), Metadata: res.Metadata}
}
