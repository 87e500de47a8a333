// Package provider abstracts the external text-generation service.
//
// The contract is deliberately tiny: one instruction in, one completion string
// out. The provider fails closed — any fault surfaces to the caller as an
// error, with no retry and no fallback. Whether the completion is usable
// (non-empty after sanitization) is the caller's concern, not the provider's.
package provider

import "context"

// Generator turns a fully-templated instruction into a single text completion.
// The Gemini implementation lives in gemini.go; tests use an in-memory stub.
type Generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}
