// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

func init() {
	registerHooks(KindArray, &hookTable{
		allocAndTransformManagedToNative: arrayForward,
		transformNativeToManaged:         arrayReverse,
		cleanup:                          arrayCleanup,
	})
	// KindAnsiCharArray is classified (§4.1) but intentionally left
	// unregistered: §12.1 treats it as one of the classified-but-
	// unemitted kinds, rejected by the orchestrator instead.

	registerHooks(KindBlittableArray, &hookTable{
		allocAndTransformManagedToNative: blittableArrayForward,
		transformNativeToManaged:         blittableArrayReverse,
	})
}

// newArrayElementMarshaller constructs the per-element Marshaller the
// enclosing array marshaller drives once per slot (§4.3 "Element
// role"). It reclassifies m.ManagedType.Elem() the same way
// classifyArray already did to compute m.ElementKind, so the two stay
// in lockstep.
func newArrayElementMarshaller(m *Marshaller) (*Marshaller, error) {
	elemMeta := ParameterMetadata{Role: RoleElement}
	return NewMarshaller(m.ManagedType.Elem(), elemMeta, m.policy, m.Direction, 0)
}

// arrayForward allocates count*sizeof(elementNative) zero-initialised
// unmanaged bytes, iterates [0, count), loads each managed element,
// runs the element marshaller to emit its conversion, and stores the
// converted value into the native slot. A null managed array yields a
// native null and skips the body entirely (§4.4 "Array (general)").
func arrayForward(m *Marshaller, b *Bundle) {
	e := b.Emitter

	nullLabel := e.NewLabel()
	doneLabel := e.NewLabel()

	if m.Direction == DirectionForward {
		m.ManagedHome.LoadValue(e)
		e.Brfalse(nullLabel)
	}

	if err := EmitElementCount(m, b); err != nil {
		m.fail(err)
		return
	}
	countLocal := e.NewLocal(m.ManagedType, false)
	e.StoreLocal(countLocal)

	elem, err := newArrayElementMarshaller(m)
	if err != nil {
		m.fail(err)
		return
	}
	elemShape := elem.NativeType().NativeShapeType()

	e.LoadLocal(countLocal)
	e.Sizeof(elemShape)
	e.Mul()
	e.CallHelper(typesystem.HelperCoTaskMemAllocAndZeroMemory)
	bufLocal := e.NewLocal(m.ManagedType, false)
	e.StoreLocal(bufLocal)

	idx := e.NewLocal(m.ManagedType, false)
	e.LdcI4(0)
	e.StoreLocal(idx)

	loopStart := e.NewLabel()
	loopEnd := e.NewLabel()
	e.BindLabel(loopStart)
	e.LoadLocal(idx)
	e.LoadLocal(countLocal)
	e.Ceq()
	e.Brtrue(loopEnd)

	e.LoadLocal(bufLocal)
	e.LoadLocal(idx)

	m.ManagedHome.LoadValue(e)
	e.LoadLocal(idx)
	e.Ldelem(m.ManagedType.Elem())
	if err := elem.EmitMarshallingIL(b); err != nil {
		m.fail(err)
		return
	}
	e.Stelem(elemShape)

	e.LoadLocal(idx)
	e.LdcI4(1)
	e.Add()
	e.StoreLocal(idx)
	e.Br(loopStart)
	e.BindLabel(loopEnd)

	e.LoadLocal(bufLocal)
	m.NativeHome.Store(e)

	if m.Direction == DirectionForward {
		e.Br(doneLabel)
		e.BindLabel(nullLabel)
		e.Ldnull()
		m.NativeHome.Store(e)
		e.BindLabel(doneLabel)
	}
}

// arrayReverse allocates a managed array sized by the resolved element
// count, iterates [0, count), loads each native element, runs the
// element marshaller to emit its conversion, and stores the converted
// value into the managed slot. A null native buffer yields a null
// managed array and skips the body entirely, mirroring arrayForward's
// null handling (§4.4 "Array (general)").
func arrayReverse(m *Marshaller, b *Bundle) {
	e := b.Emitter

	nullLabel := e.NewLabel()
	doneLabel := e.NewLabel()

	m.NativeHome.LoadValue(e)
	e.Brfalse(nullLabel)

	if err := EmitElementCount(m, b); err != nil {
		m.fail(err)
		return
	}
	countLocal := e.NewLocal(m.ManagedType, false)
	e.StoreLocal(countLocal)

	elem, err := newArrayElementMarshaller(m)
	if err != nil {
		m.fail(err)
		return
	}
	elemShape := elem.NativeType().NativeShapeType()

	e.LoadLocal(countLocal)
	e.Newarr(m.ManagedType.Elem())
	m.ManagedHome.Store(e)

	idx := e.NewLocal(m.ManagedType, false)
	e.LdcI4(0)
	e.StoreLocal(idx)

	loopStart := e.NewLabel()
	loopEnd := e.NewLabel()
	e.BindLabel(loopStart)
	e.LoadLocal(idx)
	e.LoadLocal(countLocal)
	e.Ceq()
	e.Brtrue(loopEnd)

	m.ManagedHome.LoadValue(e)
	e.LoadLocal(idx)

	m.NativeHome.LoadValue(e)
	e.LoadLocal(idx)
	e.Ldelem(elemShape)
	if err := elem.EmitMarshallingIL(b); err != nil {
		m.fail(err)
		return
	}
	e.Stelem(m.ManagedType.Elem())

	e.LoadLocal(idx)
	e.LdcI4(1)
	e.Add()
	e.StoreLocal(idx)
	e.Br(loopStart)
	e.BindLabel(loopEnd)
	e.Br(doneLabel)

	e.BindLabel(nullLabel)
	e.Ldnull()
	m.ManagedHome.Store(e)
	e.BindLabel(doneLabel)
}

// arrayCleanup releases the unmanaged buffer via the unmanaged free
// helper (§4.4).
func arrayCleanup(m *Marshaller, b *Bundle) {
	m.NativeHome.LoadValue(b.Emitter)
	b.Emitter.CallHelper(typesystem.HelperCoTaskMemFree)
}

// blittableArrayForward pins the first element (or a zero local if
// the array is null/empty) and stores the pinned address as the
// native value, avoiding a copy (§4.4 "BlittableArray").
func blittableArrayForward(m *Marshaller, b *Bundle) {
	e := b.Emitter

	if m.IsManagedByRef && !m.In && m.Direction == DirectionReverse {
		arrayForward(m, b)
		return
	}

	zeroLabel := e.NewLabel()
	doneLabel := e.NewLabel()

	m.ManagedHome.LoadValue(e)
	e.Brfalse(zeroLabel)
	m.ManagedHome.LoadValue(e)
	e.Ldlen()
	e.Brfalse(zeroLabel)

	pinned := e.NewLocal(m.ManagedType, true)
	m.ManagedHome.LoadValue(e)
	e.LdcI4(0)
	e.Ldelema(m.ManagedType.Elem())
	e.StoreLocal(pinned)
	e.LoadLocal(pinned)
	m.NativeHome.Store(e)
	e.Br(doneLabel)

	e.BindLabel(zeroLabel)
	e.Ldnull()
	m.NativeHome.Store(e)
	e.BindLabel(doneLabel)
}

func blittableArrayReverse(m *Marshaller, b *Bundle) {
	if m.IsManagedByRef && !m.In {
		arrayReverse(m, b)
		return
	}
	e := b.Emitter
	m.NativeHome.LoadValue(e)
	m.ManagedHome.Store(e)
}
