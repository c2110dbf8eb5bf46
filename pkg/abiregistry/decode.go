package abiregistry

import "github.com/flashbots/mev-inspect-go/pkg/trace"

// Set indexes a slice of registries by protocol, so inspectors can look
// theirs up once at construction time instead of scanning on every
// frame.
type Set map[trace.Protocol][]*Registry

// NewSet builds a Set from All, or from an explicit subset when a
// caller only wants to wire a handful of protocols (tests, a
// single-protocol CLI invocation).
func NewSet(registries ...*Registry) Set {
	if len(registries) == 0 {
		registries = All()
	}
	set := make(Set, len(registries))
	for _, r := range registries {
		set[r.Protocol] = append(set[r.Protocol], r)
	}
	return set
}

// For returns the registries wired for a protocol, or nil if none.
func (s Set) For(p trace.Protocol) []*Registry {
	return s[p]
}

// DecodeCall tries every registry wired for p against input.
func (s Set) DecodeCall(p trace.Protocol, input []byte) (*Decoded, error) {
	var lastErr error = ErrUnknownSelector
	for _, r := range s.For(p) {
		d, err := r.DecodeCall(input)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// DecodeLog tries every registry wired for p against a log.
func (s Set) DecodeLog(p trace.Protocol, l trace.Log) (*DecodedLog, error) {
	var lastErr error = ErrUnknownSelector
	for _, r := range s.For(p) {
		d, err := r.DecodeLog(l)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
