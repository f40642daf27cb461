package relay

// Body is the opaque byte payload carried by the raw transport layer,
// before codec decoding and after codec encoding. A zero-value Body (as opposed
// to one wrapping a zero-length slice) distinguishes "no data frame was
// ever sent" from "a data frame carrying zero bytes was sent" — the
// unary call pipeline treats the former as an error.
type Body struct {
	data []byte
	set  bool
}

// NewBody wraps data as a present Body, even if data is empty.
func NewBody(data []byte) Body {
	return Body{data: data, set: true}
}

// Data returns the wrapped bytes and whether a Body was actually present.
func (b Body) Data() ([]byte, bool) {
	return b.data, b.set
}
