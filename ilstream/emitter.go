// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Package ilstream declares the instruction-stream emitter the
// marshalling generator emits into. Spec.md §1 is explicit that the
// core "emits into an abstract instruction-stream builder (not machine
// code); an external back-end lowers that stream to the final binary
// form" — Emitter is that external collaborator's interface (§6,
// "Instruction-stream emitter (consumed)"). Recorder is a concrete,
// in-memory implementation used by this module's own tests and by
// cmd/pinvokegen, standing in for whatever real IL/bytecode builder a
// host compiler would supply.
package ilstream

import "github.com/pk910/pinvoke-marshal/typesystem"

// Opcode enumerates the primitive instructions spec.md §6 lists as the
// emitter's consumed surface.
type Opcode uint8

const (
	OpNop Opcode = iota
	OpLoadArg
	OpLoadArgAddr
	OpStoreArg
	OpLoadLocal
	OpLoadLocalAddr
	OpStoreLocal
	OpLoadIndirect
	OpStoreIndirect
	OpLdelema
	OpLdelem
	OpStelem
	OpLdlen
	OpSizeof
	OpNewobj
	OpNewarr
	OpInitobj
	OpConvI
	OpConvU
	OpLdcI4
	OpLdcI8
	OpLdnull
	OpDup
	OpPop
	OpAdd
	OpMul
	OpCeq
	OpCgt
	OpBrtrue
	OpBrfalse
	OpBr
	OpCall
	OpCallHelper
	OpRet
)

// TypeToken is an opaque reference to a type, produced by a TypeSystem
// implementation and handed back to the emitter unexamined.
type TypeToken any

// MethodToken is an opaque reference to a method, resolved by a
// HelperResolver or by the host's own method lookup.
type MethodToken any

// Local names an allocated local slot. Emitter-assigned; callers treat
// it as an opaque handle, not an index to do arithmetic on.
type Local struct {
	Slot   int
	Type   TypeToken
	Pinned bool
}

// Label names a branch target, allocated before use and bound exactly
// once to a position in the stream.
type Label struct {
	ID int
}

// Instruction is one recorded operation; Operand holds whichever of
// Local/Label/TypeToken/MethodToken/int/int32/int64/HelperID the Op
// expects.
type Instruction struct {
	Op      Opcode
	Operand any
}

// Emitter is the abstract instruction-stream builder spec.md §6
// declares as a consumed external interface. The generator calls these
// methods; it never inspects or replays the resulting stream itself.
type Emitter interface {
	// Append records a bare instruction with an optional operand.
	Append(op Opcode, operand any)

	// NewLocal allocates a local of managed type t, optionally pinned
	// for the remainder of the enclosing stub (spec.md §5 pinning).
	NewLocal(t typesystem.Type, pinned bool) Local

	// NewLabel allocates an unbound branch target.
	NewLabel() Label

	// BindLabel marks the current emission position as l's target.
	BindLabel(l Label)

	LoadArg(index int)
	LoadArgAddr(index int)
	StoreArg(index int)
	LoadLocal(l Local)
	LoadLocalAddr(l Local)
	StoreLocal(l Local)
	LoadIndirect(t typesystem.Type)
	StoreIndirect(t typesystem.Type)
	Ldelema(elem typesystem.Type)
	Ldelem(elem typesystem.Type)
	Stelem(elem typesystem.Type)
	Ldlen() // pushes the length of the array on top of the stack
	Sizeof(t typesystem.Type) // pushes sizeof(t) as an int
	Newobj(ctor MethodToken)
	Newarr(elem typesystem.Type)
	Initobj(t typesystem.Type)

	// CallHelper resolves and calls a well-known helper (spec.md §6).
	CallHelper(id typesystem.HelperID)

	// Call invokes an arbitrary resolved method token.
	Call(m MethodToken)

	ConvI()
	ConvU()
	LdcI4(v int32)
	LdcI8(v int64)
	Ldnull()
	Dup()
	Pop()
	Add()
	Mul()
	Ceq()
	Cgt()
	Brtrue(l Label)
	Brfalse(l Label)
	Br(l Label)
}
