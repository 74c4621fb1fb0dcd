// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"fmt"

	"github.com/pk910/pinvoke-marshal/ilstream"
)

// Generator is the top-level entry point: it carries the ambient
// tracing options (§10.1) and the default MethodPolicy, and drives
// GenerateStub against a caller-supplied Bundle/Emitter.
type Generator struct {
	opts GeneratorOptions
}

// NewGenerator builds a Generator from a set of GeneratorOptions. With
// no WithPolicy option, it defaults to NewPolicy(CharSetAnsi).
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(&g.opts)
	}
	if g.opts.Policy == nil {
		g.opts.Policy = NewPolicy(CharSetAnsi)
	}
	return g
}

func (g *Generator) logf(format string, args ...any) {
	if !g.opts.Verbose {
		return
	}
	if g.opts.LogCb != nil {
		g.opts.LogCb(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}

// Generate classifies and emits a full marshalling stub for sig into
// e, for the given call direction. It is the orchestration entry
// point a host compiler's P/Invoke lowering pass calls once per
// annotated method.
func (g *Generator) Generate(sig MethodSignature, dir Direction, e ilstream.Emitter) (*Stub, error) {
	g.logf("pinvoke: generating stub for %d parameter(s), direction=%s", len(sig.Parameters), dir)
	b := NewBundle(e)
	stub, err := GenerateStub(sig, g.opts.Policy, dir, b)
	if err != nil {
		g.logf("pinvoke: stub generation failed: %v", err)
		return nil, err
	}
	g.logf("pinvoke: stub generation complete, %d marshaller(s)", len(stub.Marshallers))
	return stub, nil
}

// Policy returns the MethodPolicy this Generator classifies against.
func (g *Generator) Policy() MethodPolicy { return g.opts.Policy }
