package relay

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Codec marshals and unmarshals messages to and from the bytes carried on
// the wire. It collapses the original implementation's separate
// Encoder/Decoder traits into one interface, since nothing in this package
// needs streaming encode/decode state machines (unary-only, see Body).
type Codec interface {
	// Name identifies the codec on the wire, e.g. via the grpc-encoding
	// header in a future compression layer. The default codec's name is
	// "proto".
	Name() string

	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// vtMessage is implemented by generated messages that carry the
// vtprotobuf fast-path methods. When a message implements vtMessage, the
// default codec uses it instead of the reflection-based proto.Marshal/
// Unmarshal path.
type vtMessage interface {
	MarshalVT() ([]byte, error)
	UnmarshalVT([]byte) error
}

// protoCodec is the default Codec: protobuf wire format, using the
// vtprotobuf fast path when available and falling back to
// google.golang.org/protobuf's reflection-based marshaling otherwise.
type protoCodec struct{}

// DefaultCodec is the package's default Codec instance.
var DefaultCodec Codec = protoCodec{}

func (protoCodec) Name() string { return "proto" }

func (protoCodec) Marshal(v any) ([]byte, error) {
	if vt, ok := v.(vtMessage); ok {
		return vt.MarshalVT()
	}
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("relay: cannot marshal %T: not a proto.Message or vtprotobuf message", v)
	}
	return proto.Marshal(msg)
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	if vt, ok := v.(vtMessage); ok {
		return vt.UnmarshalVT(data)
	}
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("relay: cannot unmarshal into %T: not a proto.Message or vtprotobuf message", v)
	}
	return proto.Unmarshal(data, msg)
}
