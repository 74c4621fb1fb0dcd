// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"testing"

	"github.com/pk910/pinvoke-marshal/ilstream"
)

func buildBlittableMarshaller(t *testing.T, byRef bool) *Marshaller {
	t.Helper()
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{Role: RoleArgument}
	if byRef {
		meta.ExplicitInOut = true
		meta.In = true
		meta.Out = true
	}
	typ := reflectByRefOf(int32(0), byRef)
	m, err := NewMarshaller(typ, meta, policy, DirectionForward, 1)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	return m
}

func TestBlittablePassThroughCopiesManagedToNative(t *testing.T) {
	m := buildBlittableMarshaller(t, false)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	blittablePassThrough(m, b)
	if len(r.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2 (load + store)", len(r.Instructions))
	}
}

func TestCanonicalizeBoolForwardEmitsDoubleCeq(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	m, err := NewMarshaller(reflectOf(true), ParameterMetadata{Role: RoleArgument}, policy, DirectionForward, 1)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	canonicalizeBoolForward(m, b)
	ceqCount := 0
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpCeq {
			ceqCount++
		}
	}
	if ceqCount != 2 {
		t.Fatalf("got %d ceq instructions, want 2", ceqCount)
	}
}

func TestCanonicalizeBoolReverseWritesBackToManaged(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	m, err := NewMarshaller(reflectOf(true), ParameterMetadata{Role: RoleArgument}, policy, DirectionReverse, 1)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	start := len(r.Instructions)
	canonicalizeBoolReverse(m, b)
	if len(r.Instructions) == start {
		t.Fatal("expected canonicalizeBoolReverse to emit instructions")
	}
}

func TestBlittableLoadCallSiteDirectWhenNotByRef(t *testing.T) {
	m := buildBlittableMarshaller(t, false)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	start := len(r.Instructions)
	blittableLoadCallSite(m, b)
	emitted := r.Instructions[start:]
	for _, instr := range emitted {
		if instr.Op == ilstream.OpConvI {
			t.Fatal("non-by-ref call site should not pin and convert to an integer")
		}
	}
}

func TestBlittableLoadCallSitePinsWhenByRefAndNativeByRef(t *testing.T) {
	m := buildBlittableMarshaller(t, true)
	m.IsNativeByRef = true
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	start := len(r.Instructions)
	blittableLoadCallSite(m, b)
	emitted := r.Instructions[start:]
	foundConvI := false
	for _, instr := range emitted {
		if instr.Op == ilstream.OpConvI {
			foundConvI = true
		}
	}
	if !foundConvI {
		t.Fatalf("got %+v, want a ConvI after pinning the local's address", emitted)
	}
}
