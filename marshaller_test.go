// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"testing"

	"github.com/pk910/pinvoke-marshal/ilstream"
	"github.com/pk910/pinvoke-marshal/typesystem"
)

func buildElementMarshaller(t *testing.T, dir Direction) *Marshaller {
	t.Helper()
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{Role: RoleElement}
	m, err := NewMarshaller(reflectOf(""), meta, policy, dir, 0)
	if err != nil {
		t.Fatalf("NewMarshaller: %v", err)
	}
	return m
}

func TestEmitMarshallingILDispatchesElementRoleForward(t *testing.T) {
	m := buildElementMarshaller(t, DirectionForward)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)

	if err := m.EmitMarshallingIL(b); err != nil {
		t.Fatalf("EmitMarshallingIL: %v", err)
	}

	foundConvert := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperStringToAnsi {
			foundConvert = true
		}
	}
	if !foundConvert {
		t.Fatal("expected a Forward Element marshaller to run its kind's allocAndTransformManagedToNative hook")
	}

	foundStoreLocal := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpStoreLocal {
			foundStoreLocal = true
		}
	}
	if !foundStoreLocal {
		t.Fatal("expected the Element role to bind both homes to locals")
	}
}

func TestEmitMarshallingILDispatchesElementRoleReverse(t *testing.T) {
	m := buildElementMarshaller(t, DirectionReverse)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)

	if err := m.EmitMarshallingIL(b); err != nil {
		t.Fatalf("EmitMarshallingIL: %v", err)
	}

	foundConvert := false
	for _, instr := range r.Instructions {
		if instr.Op == ilstream.OpCallHelper && instr.Operand == typesystem.HelperAnsiStringToString {
			foundConvert = true
		}
	}
	if !foundConvert {
		t.Fatal("expected a Reverse Element marshaller to run its kind's transformNativeToManaged hook")
	}
}

func TestEmitMarshallingILRejectsUnhandledRole(t *testing.T) {
	m := buildElementMarshaller(t, DirectionForward)
	m.Role = MarshallerRole(99)
	r := ilstream.NewRecorder(nil)
	b := NewBundle(r)

	if err := m.EmitMarshallingIL(b); err == nil {
		t.Fatal("expected EmitMarshallingIL to reject a role with no base-protocol entry point")
	}
}
