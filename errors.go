package relay

import "errors"

// AsStatus walks err's chain (via errors.As, following Unwrap) looking for
// a *Status. If none is found, it returns a Status wrapping err under
// CodeUnknown, so callers never need a second nil check: AsStatus always
// returns a non-nil *Status for a non-nil err.
//
// This replaces the original implementation's manual downcast through a
// fixed list of known wrapper types (Status itself, then h2::Error) with
// Go's general-purpose chain walk, so any error type that wraps a *Status
// anywhere in its chain is found automatically.
func AsStatus(err error) *Status {
	if err == nil {
		return nil
	}
	var s *Status
	if errors.As(err, &s) {
		return s
	}
	out := New(CodeUnknown, err.Error())
	out.source = err
	return out
}
