package relay

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relayrpc/relay/metadata"
)

func TestPercentEncodeDecodeRoundTrip(t *testing.T) {
	messages := []string{
		"plain message",
		"has a \" and a # and a <tag> and a `tick` and {brace}",
		"control\x01char",
		"unicode: héllo wörld",
		"",
	}
	for _, msg := range messages {
		encoded := percentEncode(msg)
		decoded, err := percentDecode(encoded)
		if err != nil {
			t.Fatalf("percentDecode(%q): %v", encoded, err)
		}
		if decoded != msg {
			t.Errorf("round trip mismatch: got %q, want %q", decoded, msg)
		}
	}
}

func TestPercentEncodeLeavesSafeStringsUntouched(t *testing.T) {
	msg := "nothing_special_here_123"
	if got := percentEncode(msg); got != msg {
		t.Errorf("percentEncode(%q) = %q, want unchanged", msg, got)
	}
}

func TestStatusAddHeaderAndFromHeaderMap(t *testing.T) {
	md := metadata.New()
	md.Insert("X-Custom", "value")

	original := WithMetadata(CodeNotFound, "thing wasn't found", md)
	original.details = []byte{0x01, 0x02, 0x03}

	header := make(http.Header)
	original.AddHeader(header)

	parsed, ok := FromHeaderMap(header)
	if !ok {
		t.Fatal("FromHeaderMap: grpc-status missing")
	}
	if parsed.Code() != original.Code() {
		t.Errorf("code = %v, want %v", parsed.Code(), original.Code())
	}
	if parsed.Message() != original.Message() {
		t.Errorf("message = %q, want %q", parsed.Message(), original.Message())
	}
	if !cmp.Equal(parsed.Details(), original.details) {
		t.Errorf("details = %v, want %v", parsed.Details(), original.details)
	}
	if got, ok := parsed.Metadata().Get("X-Custom"); !ok || got != "value" {
		t.Errorf("metadata X-Custom = %q, %v, want \"value\", true", got, ok)
	}
}

func TestFromHeaderMapMissingGRPCStatus(t *testing.T) {
	header := make(http.Header)
	if _, ok := FromHeaderMap(header); ok {
		t.Error("FromHeaderMap should report absent when grpc-status is missing")
	}
}

func TestFromHeaderMapMalformedDetailsNeverPanics(t *testing.T) {
	header := make(http.Header)
	header.Set(headerGRPCStatus, "2")
	header.Set(headerGRPCStatusBin, "not valid base64 !!!")

	status, ok := FromHeaderMap(header)
	if !ok {
		t.Fatal("FromHeaderMap should still report present")
	}
	if status.Code() != CodeUnknown {
		t.Errorf("malformed details should yield CodeUnknown, got %v", status.Code())
	}
}

func TestInferStatusPrefersTrailer(t *testing.T) {
	trailer := make(http.Header)
	trailer.Set(headerGRPCStatus, "5")

	status, ok := InferStatus(trailer, http.StatusInternalServerError)
	if !ok {
		t.Fatal("expected a status")
	}
	if status.Code() != CodeNotFound {
		t.Errorf("code = %v, want CodeNotFound", status.Code())
	}
}

func TestInferStatusFallsBackToHTTPStatus(t *testing.T) {
	status, ok := InferStatus(nil, http.StatusServiceUnavailable)
	if !ok {
		t.Fatal("expected a status")
	}
	if status.Code() != CodeUnavailable {
		t.Errorf("code = %v, want CodeUnavailable", status.Code())
	}
}

func TestInferStatusOKWhenNothingToInfer(t *testing.T) {
	if _, ok := InferStatus(nil, http.StatusOK); ok {
		t.Error("expected no status to infer for a clean 200 with no trailer")
	}
}

func TestAsStatusRecoversThroughWrapping(t *testing.T) {
	original := New(CodePermissionDenied, "nope")
	wrapped := fmt.Errorf("context: %w", original)
	wrapped = fmt.Errorf("more context: %w", wrapped)

	got := AsStatus(wrapped)
	if got.Code() != CodePermissionDenied {
		t.Errorf("code = %v, want CodePermissionDenied", got.Code())
	}
}

func TestAsStatusSynthesizesUnknownForPlainError(t *testing.T) {
	got := AsStatus(errors.New("boom"))
	if got.Code() != CodeUnknown {
		t.Errorf("code = %v, want CodeUnknown", got.Code())
	}
}
