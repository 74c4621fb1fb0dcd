// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"testing"

	"github.com/pk910/pinvoke-marshal/ilstream"
)

func lastOp(r *ilstream.Recorder) ilstream.Opcode {
	return r.Instructions[len(r.Instructions)-1].Op
}

func TestArgHomeLoadValue(t *testing.T) {
	r := ilstream.NewRecorder(nil)
	h := ArgHome(2, reflectOf(int32(0)))
	h.LoadValue(r)
	if len(r.Instructions) != 1 || r.Instructions[0].Op != ilstream.OpLoadArg || r.Instructions[0].Operand != 2 {
		t.Fatalf("ArgHome.LoadValue emitted %+v, want a single ldarg 2", r.Instructions)
	}
}

func TestArgHomeLoadAddress(t *testing.T) {
	r := ilstream.NewRecorder(nil)
	h := ArgHome(0, reflectOf(int32(0)))
	h.LoadAddress(r)
	if len(r.Instructions) != 1 || r.Instructions[0].Op != ilstream.OpLoadArgAddr {
		t.Fatalf("ArgHome.LoadAddress emitted %+v, want a single ldarga", r.Instructions)
	}
}

// ByRefArgHome's slot already holds the address; LoadAddress must not
// take a further address-of, and LoadValue must dereference through
// exactly one indirection.
func TestByRefArgHomeLoadAddressDoesNotDoubleIndirect(t *testing.T) {
	r := ilstream.NewRecorder(nil)
	h := ByRefArgHome(1, reflectOf(int32(0)))
	h.LoadAddress(r)
	if len(r.Instructions) != 1 {
		t.Fatalf("LoadAddress emitted %d instructions, want 1", len(r.Instructions))
	}
	if r.Instructions[0].Op != ilstream.OpLoadArg || r.Instructions[0].Operand != 1 {
		t.Fatalf("LoadAddress emitted %+v, want ldarg 1 (the slot already holds the pointer)", r.Instructions[0])
	}
}

func TestByRefArgHomeLoadValueDereferences(t *testing.T) {
	r := ilstream.NewRecorder(nil)
	h := ByRefArgHome(1, reflectOf(int32(0)))
	h.LoadValue(r)
	if len(r.Instructions) != 2 {
		t.Fatalf("LoadValue emitted %d instructions, want 2 (ldarg; ldind)", len(r.Instructions))
	}
	if r.Instructions[0].Op != ilstream.OpLoadArg || r.Instructions[1].Op != ilstream.OpLoadIndirect {
		t.Fatalf("LoadValue emitted %+v, want [ldarg, ldind]", r.Instructions)
	}
}

func TestByRefLocalHomeSymmetry(t *testing.T) {
	r := ilstream.NewRecorder(nil)
	local := r.NewLocal(nil, false)
	h := ByRefLocalHome(local, reflectOf(int32(0)))

	h.LoadAddress(r)
	if lastOp(r) != ilstream.OpLoadLocal {
		t.Fatalf("ByRefLocalHome.LoadAddress = %v, want ldloc (slot already holds the address)", lastOp(r))
	}

	h.LoadValue(r)
	if len(r.Instructions) != 3 || r.Instructions[2].Op != ilstream.OpLoadIndirect {
		t.Fatalf("ByRefLocalHome.LoadValue did not end in ldind: %+v", r.Instructions)
	}
}

func TestHomeStorePanicsOnByRef(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Store on a by-reference Home to panic")
		}
	}()
	r := ilstream.NewRecorder(nil)
	h := ByRefArgHome(0, reflectOf(int32(0)))
	h.Store(r)
}

func TestHomeIsByRef(t *testing.T) {
	if ArgHome(0, nil).IsByRef() {
		t.Fatal("ArgHome must not report IsByRef")
	}
	if !ByRefArgHome(0, nil).IsByRef() {
		t.Fatal("ByRefArgHome must report IsByRef")
	}
	if !ByRefLocalHome(ilstream.Local{}, nil).IsByRef() {
		t.Fatal("ByRefLocalHome must report IsByRef")
	}
}
