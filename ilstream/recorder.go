// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package ilstream

import (
	"fmt"
	"strings"

	"github.com/pk910/pinvoke-marshal/typesystem"
)

// Recorder is an in-memory Emitter: it appends every call to a flat
// Instruction slice instead of lowering to machine code. It exists so
// the generator and its tests can run without a real compiler back
// end, the same role sszutils.HashWalker's concrete implementations
// play for treeroot.go's hashing walk.
type Recorder struct {
	Instructions []Instruction
	locals       []Local
	labels       int
	resolver     typesystem.HelperResolver
}

// NewRecorder returns a Recorder. resolver may be nil; CallHelper then
// records the HelperID itself instead of a resolved token, which is
// enough for tests that only assert on emitted shape.
func NewRecorder(resolver typesystem.HelperResolver) *Recorder {
	return &Recorder{resolver: resolver}
}

func (r *Recorder) Append(op Opcode, operand any) {
	r.Instructions = append(r.Instructions, Instruction{Op: op, Operand: operand})
}

func (r *Recorder) NewLocal(t typesystem.Type, pinned bool) Local {
	l := Local{Slot: len(r.locals), Type: t, Pinned: pinned}
	r.locals = append(r.locals, l)
	return l
}

func (r *Recorder) NewLabel() Label {
	l := Label{ID: r.labels}
	r.labels++
	return l
}

func (r *Recorder) BindLabel(l Label) { r.Append(OpNop, l) }

func (r *Recorder) LoadArg(index int)      { r.Append(OpLoadArg, index) }
func (r *Recorder) LoadArgAddr(index int)  { r.Append(OpLoadArgAddr, index) }
func (r *Recorder) StoreArg(index int)     { r.Append(OpStoreArg, index) }
func (r *Recorder) LoadLocal(l Local)      { r.Append(OpLoadLocal, l) }
func (r *Recorder) LoadLocalAddr(l Local)  { r.Append(OpLoadLocalAddr, l) }
func (r *Recorder) StoreLocal(l Local)     { r.Append(OpStoreLocal, l) }
func (r *Recorder) LoadIndirect(t typesystem.Type)  { r.Append(OpLoadIndirect, t) }
func (r *Recorder) StoreIndirect(t typesystem.Type) { r.Append(OpStoreIndirect, t) }
func (r *Recorder) Ldelema(elem typesystem.Type) { r.Append(OpLdelema, elem) }
func (r *Recorder) Ldelem(elem typesystem.Type)  { r.Append(OpLdelem, elem) }
func (r *Recorder) Stelem(elem typesystem.Type)  { r.Append(OpStelem, elem) }
func (r *Recorder) Ldlen()                       { r.Append(OpLdlen, nil) }
func (r *Recorder) Sizeof(t typesystem.Type)     { r.Append(OpSizeof, t) }
func (r *Recorder) Newobj(ctor MethodToken)      { r.Append(OpNewobj, ctor) }
func (r *Recorder) Newarr(elem typesystem.Type)  { r.Append(OpNewarr, elem) }
func (r *Recorder) Initobj(t typesystem.Type)    { r.Append(OpInitobj, t) }

func (r *Recorder) CallHelper(id typesystem.HelperID) {
	if r.resolver == nil {
		r.Append(OpCallHelper, id)
		return
	}
	tok, err := r.resolver.Resolve(id)
	if err != nil {
		r.Append(OpCallHelper, id)
		return
	}
	r.Append(OpCallHelper, tok)
}

func (r *Recorder) Call(m MethodToken) { r.Append(OpCall, m) }

func (r *Recorder) ConvI()         { r.Append(OpConvI, nil) }
func (r *Recorder) ConvU()         { r.Append(OpConvU, nil) }
func (r *Recorder) LdcI4(v int32)  { r.Append(OpLdcI4, v) }
func (r *Recorder) LdcI8(v int64)  { r.Append(OpLdcI8, v) }
func (r *Recorder) Ldnull()        { r.Append(OpLdnull, nil) }
func (r *Recorder) Dup()           { r.Append(OpDup, nil) }
func (r *Recorder) Pop()           { r.Append(OpPop, nil) }
func (r *Recorder) Add()           { r.Append(OpAdd, nil) }
func (r *Recorder) Mul()           { r.Append(OpMul, nil) }
func (r *Recorder) Ceq()           { r.Append(OpCeq, nil) }
func (r *Recorder) Cgt()           { r.Append(OpCgt, nil) }
func (r *Recorder) Brtrue(l Label) { r.Append(OpBrtrue, l) }
func (r *Recorder) Brfalse(l Label) { r.Append(OpBrfalse, l) }
func (r *Recorder) Br(l Label)     { r.Append(OpBr, l) }

// Len reports how many instructions have been recorded so far; callers
// use this to snapshot a stream boundary the way streams.go's Bundle
// checks whether a sub-stream emitted anything.
func (r *Recorder) Len() int { return len(r.Instructions) }

// String renders the recorded stream for diagnostics and golden-file
// tests, one instruction per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for i, instr := range r.Instructions {
		fmt.Fprintf(&b, "%04d %-14s %v\n", i, opcodeName(instr.Op), instr.Operand)
	}
	return b.String()
}

func opcodeName(op Opcode) string {
	names := [...]string{
		"nop", "ldarg", "ldarga", "starg", "ldloc", "ldloca", "stloc",
		"ldind", "stind", "ldelema", "ldelem", "stelem", "ldlen", "sizeof",
		"newobj", "newarr", "initobj", "conv.i", "conv.u", "ldc.i4",
		"ldc.i8", "ldnull", "dup", "pop", "add", "mul", "ceq", "cgt",
		"brtrue", "brfalse", "br", "call", "callhelper", "ret",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}
