// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"fmt"

	"github.com/pk910/pinvoke-marshal/ilstream"
	"github.com/pk910/pinvoke-marshal/typesystem"
)

// homeTag is the closed tag of Home's four variants (design notes §9:
// "a tagged record with four variants"), kept unexported — callers
// only ever construct a Home through ArgHome/ByRefArgHome/LocalHome/
// ByRefLocalHome and consume it through LoadValue/LoadAddress/Store.
type homeTag uint8

const (
	homeArg homeTag = iota
	homeByRefArg
	homeLocal
	homeByRefLocal
)

// Home is a value-location descriptor: argument slot or local slot,
// direct or by-reference (§3, design notes §9). The by-reference
// variants can never be a Store target — that is a precondition, not
// a recoverable error (design notes §9): Store panics if called on one, since reaching it means the
// marshaller base protocol itself is wrong, not that the input method
// signature was bad.
type Home struct {
	tag   homeTag
	index int // argument ordinal, for homeArg/homeByRefArg
	local ilstream.Local
	typ   typesystem.Type
}

// ArgHome binds a Home directly to argument slot index (0-based).
func ArgHome(index int, t typesystem.Type) Home {
	return Home{tag: homeArg, index: index, typ: t}
}

// ByRefArgHome binds a Home to a by-reference argument slot.
func ByRefArgHome(index int, t typesystem.Type) Home {
	return Home{tag: homeByRefArg, index: index, typ: t}
}

// LocalHome binds a Home to a direct local.
func LocalHome(l ilstream.Local, t typesystem.Type) Home {
	return Home{tag: homeLocal, local: l, typ: t}
}

// ByRefLocalHome binds a Home to a by-reference local.
func ByRefLocalHome(l ilstream.Local, t typesystem.Type) Home {
	return Home{tag: homeByRefLocal, local: l, typ: t}
}

// IsByRef reports whether this Home is one of the by-reference
// variants (argument-by-reference or local-by-reference).
func (h Home) IsByRef() bool {
	return h.tag == homeByRefArg || h.tag == homeByRefLocal
}

// Type returns the managed/native type this Home was bound with.
func (h Home) Type() typesystem.Type { return h.typ }

// LoadValue emits the instructions that push this Home's value onto
// the evaluation stack, dereferencing through the by-reference
// indirection when needed.
func (h Home) LoadValue(e ilstream.Emitter) {
	switch h.tag {
	case homeArg:
		e.LoadArg(h.index)
	case homeByRefArg:
		// The slot holds the pointer itself; load it, then dereference.
		e.LoadArg(h.index)
		e.LoadIndirect(h.typ)
	case homeLocal:
		e.LoadLocal(h.local)
	case homeByRefLocal:
		e.LoadLocal(h.local)
		e.LoadIndirect(h.typ)
	}
}

// LoadAddress emits the instructions that push this Home's address.
// For an already by-reference Home, this is simply the stored
// pointer; for a direct Home, it is the slot's own address.
func (h Home) LoadAddress(e ilstream.Emitter) {
	switch h.tag {
	case homeArg:
		e.LoadArgAddr(h.index)
	case homeByRefArg:
		// The argument slot already holds the pointer; that value IS
		// the address, so no further address-of is taken.
		e.LoadArg(h.index)
	case homeLocal:
		e.LoadLocalAddr(h.local)
	case homeByRefLocal:
		// Likewise, the local already holds the pointer.
		e.LoadLocal(h.local)
	}
}

// Store emits the instructions that pop a value off the stack and
// write it into this Home. It panics if h is a by-reference variant:
// "a by-reference location is never the direct target of a store"
// (§3 invariant) is a precondition the caller must have already
// satisfied by routing the write through a non-by-reference local.
func (h Home) Store(e ilstream.Emitter) {
	switch h.tag {
	case homeArg:
		e.StoreArg(h.index)
	case homeLocal:
		e.StoreLocal(h.local)
	case homeByRefArg, homeByRefLocal:
		panic(fmt.Errorf("%w: store into by-reference home", ErrInternalInvariant))
	}
}
