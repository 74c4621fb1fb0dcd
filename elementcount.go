// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"fmt"

	"github.com/pk910/pinvoke-marshal/typesystem"
)

// EmitElementCount is the Element-Count Resolution component (§4.5):
// for a non-blittable array marshaller, emit the instructions that
// leave the element count on top of the evaluation stack, using the
// rule appropriate to m's direction and role.
func EmitElementCount(m *Marshaller, b *Bundle) error {
	switch {
	case m.Direction == DirectionForward:
		// Forward argument and Forward element both use the managed
		// array's own length (§4.5: "Forward element (nested): recurse
		// as Forward argument").
		m.ManagedHome.LoadValue(b.Emitter)
		b.Emitter.Ldlen()
		return nil
	default:
		return emitSizeParamElementCount(m, b)
	}
}

// emitSizeParamElementCount implements the Reverse/out-direction rule:
// sizeConst + loadParam(sizeParamIndex); if only one is present, use
// that alone; if neither, default to 1. sizeParamIndex is offset by
// one to skip the return-value slot (§4.5).
func emitSizeParamElementCount(m *Marshaller, b *Bundle) error {
	desc := m.Descriptor
	switch {
	case desc.HasSizeConst && desc.HasSizeParamIndex:
		sizeParam, err := resolveSizeParam(m, desc.ParamIndex)
		if err != nil {
			return err
		}
		b.Emitter.LdcI4(int32(desc.SizeConst))
		sizeParam.ManagedHome.LoadValue(b.Emitter)
		b.Emitter.Add()
		return nil
	case desc.HasSizeConst:
		b.Emitter.LdcI4(int32(desc.SizeConst))
		return nil
	case desc.HasSizeParamIndex:
		sizeParam, err := resolveSizeParam(m, desc.ParamIndex)
		if err != nil {
			return err
		}
		sizeParam.ManagedHome.LoadValue(b.Emitter)
		return nil
	default:
		b.Emitter.LdcI4(1)
		return nil
	}
}

// resolveSizeParam looks up the sibling marshaller SizeParamIndex
// refers to (offset by one past the return slot) and validates that
// its managed type is integral, rejecting the signature otherwise
// (§4.5: "The indexed parameter must be an integral type; otherwise
// reject the signature").
func resolveSizeParam(m *Marshaller, paramIndex int) (*Marshaller, error) {
	if m.Siblings == nil {
		return nil, fmt.Errorf("%w: no sibling marshaller list available", ErrInvalidSizeParamIndex)
	}
	siblings := *m.Siblings
	index := paramIndex + 1 // skip the return-value slot
	if index < 0 || index >= len(siblings) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidSizeParamIndex, paramIndex)
	}
	sibling := siblings[index]
	switch sibling.ManagedType.Kind() {
	case typesystem.KindInt, typesystem.KindUint, typesystem.KindIntPtr, typesystem.KindUintPtr:
	default:
		return nil, fmt.Errorf("%w: parameter %d", ErrSizeParamNotIntegral, paramIndex)
	}
	return sibling, nil
}
