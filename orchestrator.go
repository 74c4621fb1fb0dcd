// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "fmt"

// MethodSignature is the Stub Orchestrator's (§4.6) input: a method's
// return value plus its ordered parameter list. ReturnMeta.Type may be
// a void typesystem.Type, in which case classification yields
// KindVoidReturn.
type MethodSignature struct {
	ReturnMeta ParameterMetadata
	Parameters []ParameterMetadata
}

// Stub is the result of orchestrating one method signature: every
// constructed Marshaller, index 0 being the return value, plus the
// Bundle they emitted into.
type Stub struct {
	Marshallers []*Marshaller
	Bundle      *Bundle
}

// GenerateStub is the Stub Orchestrator (§4.6): construct one
// marshaller per parameter (plus the return, at index 0), link them
// via a shared sibling view so SizeParamIndex can look across
// siblings, then drive each one's EmitMarshallingIL against the
// shared Bundle. The return-value marshaller is driven last, writing
// only into the return-value stream.
func GenerateStub(sig MethodSignature, policy MethodPolicy, dir Direction, b *Bundle) (*Stub, error) {
	n := len(sig.Parameters) + 1
	marshallers := make([]*Marshaller, n)

	retMeta := sig.ReturnMeta
	retMeta.IsReturnValue = true
	retMeta.Role = RoleArgument
	retM, err := NewMarshaller(retMeta.Type, retMeta, policy, dir, 0)
	if err != nil {
		return nil, fmt.Errorf("return value: %w", err)
	}
	marshallers[0] = retM

	for i, p := range sig.Parameters {
		p.IsReturnValue = false
		p.Role = RoleArgument
		pm, err := NewMarshaller(p.Type, p, policy, dir, i+1)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		marshallers[i+1] = pm
	}

	for _, m := range marshallers {
		m.Siblings = &marshallers
	}

	for i := 1; i < len(marshallers); i++ {
		if err := marshallers[i].EmitMarshallingIL(b); err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	if err := marshallers[0].EmitMarshallingIL(b); err != nil {
		return nil, fmt.Errorf("return value: %w", err)
	}

	return &Stub{Marshallers: marshallers, Bundle: b}, nil
}
