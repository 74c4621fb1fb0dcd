// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"testing"

	"github.com/pk910/pinvoke-marshal/ilstream"
	"github.com/pk910/pinvoke-marshal/typesystem"
)

func buildArrayMarshaller(t *testing.T, dir Direction) *Marshaller {
	t.Helper()
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{Role: RoleArgument}
	m, err := NewMarshaller(reflectOf([]string{}), meta, policy, dir, 1)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	return m
}

func TestArrayForwardAllocatesAndCopiesElements(t *testing.T) {
	m := buildArrayMarshaller(t, DirectionForward)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	arrayForward(m, b)
	if m.emitErr != nil {
		t.Fatalf("arrayForward failed: %v", m.emitErr)
	}

	foundAlloc, foundLoop, foundMul, foundElemConvert := false, false, false, false
	for _, instr := range r.Instructions {
		switch {
		case instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperCoTaskMemAllocAndZeroMemory:
			foundAlloc = true
		case instr.Op == ilstream.OpBrtrue:
			foundLoop = true
		case instr.Op == ilstream.OpMul:
			foundMul = true
		case instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperStringToAnsi:
			foundElemConvert = true
		}
	}
	if !foundAlloc {
		t.Fatal("expected arrayForward to call HelperCoTaskMemAllocAndZeroMemory")
	}
	if !foundLoop {
		t.Fatal("expected arrayForward to emit a bounded copy loop")
	}
	if !foundMul {
		t.Fatal("expected arrayForward to size the allocation as count * sizeof(elementNative)")
	}
	if !foundElemConvert {
		t.Fatal("expected arrayForward to run the []string element marshaller (StringToAnsi) per slot, not a flat ldelem/stelem copy")
	}
}

func TestArrayReverseAllocatesManagedArrayAndConvertsElements(t *testing.T) {
	m := buildArrayMarshaller(t, DirectionReverse)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.ManagedHome = LocalHome(r.NewLocal(m.ManagedType, false), m.ManagedType)
	m.NativeHome = LocalHome(r.NewLocal(m.ManagedType, false), m.ManagedType)

	arrayReverse(m, b)
	if m.emitErr != nil {
		t.Fatalf("arrayReverse failed: %v", m.emitErr)
	}

	foundNewarr, foundElemConvert := false, false
	for _, instr := range r.Instructions {
		switch {
		case instr.Op == ilstream.OpNewarr:
			foundNewarr = true
		case instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperAnsiStringToString:
			foundElemConvert = true
		}
	}
	if !foundNewarr {
		t.Fatal("expected arrayReverse to allocate a managed array sized by the resolved element count")
	}
	if !foundElemConvert {
		t.Fatal("expected arrayReverse to run the []string element marshaller (AnsiStringToString) per slot, not a raw pointer passthrough")
	}
}

func TestArrayForwardGuardsNullManagedArray(t *testing.T) {
	m := buildArrayMarshaller(t, DirectionForward)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	arrayForward(m, b)
	foundNullGuard := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpBrfalse {
			foundNullGuard = true
		}
	}
	if !foundNullGuard {
		t.Fatal("expected a null-array guard (brfalse) in Forward direction")
	}
}

func TestArrayCleanupFreesTheNativeBuffer(t *testing.T) {
	m := buildArrayMarshaller(t, DirectionForward)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	arrayCleanup(m, b)
	foundFree := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperCoTaskMemFree {
			foundFree = true
		}
	}
	if !foundFree {
		t.Fatal("expected arrayCleanup to call HelperCoTaskMemFree")
	}
}

func buildBlittableArrayMarshaller(t *testing.T) *Marshaller {
	t.Helper()
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{Role: RoleArgument}
	m, err := NewMarshaller(reflectOf([]int32{}), meta, policy, DirectionForward, 1)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	return m
}

func TestBlittableArrayForwardPinsFirstElement(t *testing.T) {
	m := buildBlittableArrayMarshaller(t)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	blittableArrayForward(m, b)
	foundLdelema := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpLdelema {
			foundLdelema = true
		}
	}
	if !foundLdelema {
		t.Fatal("expected blittableArrayForward to pin the first element via ldelema")
	}
}

func TestBlittableArrayForwardFallsBackToArrayForwardWhenByRefOutOnlyReverse(t *testing.T) {
	m := buildBlittableArrayMarshaller(t)
	m.IsManagedByRef = true
	m.In = false
	m.Direction = DirectionReverse
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)
	m.setupHomes(b)

	blittableArrayForward(m, b)
	foundAlloc := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperCoTaskMemAllocAndZeroMemory {
			foundAlloc = true
		}
	}
	if !foundAlloc {
		t.Fatal("expected the by-ref-out reverse case to fall back to arrayForward's allocation path")
	}
}
