package relay

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// fakeVTMessage is a minimal vtMessage used to exercise protoCodec's fast
// path without depending on a real protoc-generated type.
type fakeVTMessage struct {
	Value string
}

func (m *fakeVTMessage) MarshalVT() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Value)
	return b, nil
}

func (m *fakeVTMessage) UnmarshalVT(data []byte) error {
	num, typ, n := protowire.ConsumeTag(data)
	if n < 0 || num != 1 || typ != protowire.BytesType {
		return nil
	}
	v, _ := protowire.ConsumeString(data[n:])
	m.Value = v
	return nil
}

func TestProtoCodecUsesVTFastPath(t *testing.T) {
	codec := protoCodec{}

	in := &fakeVTMessage{Value: "hello"}
	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out fakeVTMessage
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Value != "hello" {
		t.Errorf("got %q, want %q", out.Value, "hello")
	}
}

func TestProtoCodecRejectsUnsupportedType(t *testing.T) {
	codec := protoCodec{}
	if _, err := codec.Marshal(42); err == nil {
		t.Error("expected an error marshaling a type that implements neither interface")
	}
}

func TestProtoCodecName(t *testing.T) {
	if DefaultCodec.Name() != "proto" {
		t.Errorf("Name() = %q, want %q", DefaultCodec.Name(), "proto")
	}
}
