package abiregistry

import "errors"

// ErrUnknownSelector is returned when a frame's 4-byte selector doesn't
// match any method known to the ABI registered for a protocol.
var ErrUnknownSelector = errors.New("abiregistry: unknown selector")

// ErrNoSelector is returned when the input is shorter than 4 bytes, so
// there is no selector to look up at all (plain ETH transfers land
// here).
var ErrNoSelector = errors.New("abiregistry: input has no selector")
