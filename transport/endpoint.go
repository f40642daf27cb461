// Package transport implements the raw HTTP/2 wire plumbing: a
// per-call-connect client Endpoint and a server Router/Routes pair that
// dispatch accepted connections one goroutine per connection.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"

	"golang.org/x/net/http2"
)

// Endpoint is a client transport bound to a single destination. Grounded
// on the original implementation's transport::client::Endpoint: a new TCP
// connection and HTTP/2 handshake is made for every call rather than
// pooling connections, so Endpoint itself stays stateless beyond its
// destination address — this is a deliberate match to the original's
// design, not a bug (see REDESIGN FLAGS), since the per-call connection
// model is what the specification calls for.
type Endpoint struct {
	dst string
}

// NewEndpoint returns an Endpoint dialing dst (host:port) for every call.
func NewEndpoint(dst string) *Endpoint {
	return &Endpoint{dst: dst}
}

// Call issues one HTTP/2 POST to path over a fresh connection, writing
// header as HTTP headers and body as the single request data frame, and
// returns the response headers, body, and trailers. It never reuses a
// connection across calls.
func (e *Endpoint) Call(ctx context.Context, path string, header http.Header, body []byte) (respHeader http.Header, respBody []byte, trailer http.Header, statusCode int, err error) {
	transport := &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, network, addr)
		},
	}
	defer transport.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+e.dst+path, newBodyReader(body))
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("transport: building request: %w", err)
	}
	req.Header = header.Clone()
	req.Header.Set("Content-Type", "application/grpc")
	req.Header.Set("Te", "trailers")
	req.ContentLength = int64(len(body))

	// Spec §4.5 step 5 / §6.1: the request must close with an HTTP/2
	// trailers frame carrying at least one placeholder trailer, not just
	// an END_STREAM flag on the data frame. Declaring req.Trailer (with
	// its value already known, since the whole body is in hand up front)
	// makes net/http emit a real trailers frame after the data frame
	// instead of folding end-stream into the DATA frame's flags.
	req.Trailer = http.Header{"Relay-Trailer": []string{""}}

	res, err := transport.RoundTrip(req)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("transport: round trip: %w", err)
	}
	defer res.Body.Close()

	respBody, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("transport: reading response body: %w", err)
	}

	return res.Header, respBody, res.Trailer, res.StatusCode, nil
}

func newBodyReader(b []byte) io.Reader {
	if b == nil {
		b = []byte{}
	}
	return &byteReader{b: b}
}

// byteReader is a minimal io.Reader over a byte slice; avoids pulling in
// bytes.Reader's larger API surface for what's otherwise a one-shot read.
type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
