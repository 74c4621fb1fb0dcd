// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

func init() {
	registerHooks(KindUnicodeString, &hookTable{
		allocAndTransformManagedToNative: unicodeStringForward,
		transformNativeToManaged:         unicodeStringReverse,
	})

	// AnsiString intentionally has no cleanup hook: StringToAnsi's
	// returned buffer is pinned in place rather than separately
	// heap-owned by this stub, so there is no corresponding free to
	// emit here. §12.3 records this as known, not a bug.
	registerHooks(KindAnsiString, &hookTable{
		allocAndTransformManagedToNative: ansiStringForward,
		transformNativeToManaged:         ansiStringReverse,
	})

	registerHooks(KindUnicodeStringBuilder, &hookTable{
		allocAndTransformManagedToNative: stringBuilderForward,
		transformNativeToManaged:         stringBuilderReverse,
	})
}

// unicodeStringForward pins the managed string and adds the constant
// managed-string-data offset to obtain a pointer to the first
// character, guarding a null source by branching over the offset add
// (§4.4 "UnicodeString").
func unicodeStringForward(m *Marshaller, b *Bundle) {
	e := b.Emitter
	pinned := e.NewLocal(m.ManagedType, true)
	m.ManagedHome.LoadValue(e)
	e.StoreLocal(pinned)

	nullLabel := e.NewLabel()
	doneLabel := e.NewLabel()
	e.LoadLocal(pinned)
	e.Brfalse(nullLabel)
	e.LoadLocal(pinned)
	e.CallHelper(typesystem.HelperGetOffsetToStringData)
	e.Add()
	e.Br(doneLabel)
	e.BindLabel(nullLabel)
	e.Ldnull()
	e.BindLabel(doneLabel)
	m.NativeHome.Store(e)
}

// unicodeStringReverse converts a native char* into a managed string
// via allocation, with no byte-level transcoding (§8 scenario 3).
func unicodeStringReverse(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.NativeHome.LoadValue(e)
	e.Newobj("System.String..ctor(char*)")
	m.ManagedHome.Store(e)
}

// ansiStringForward delegates to StringToAnsi to allocate a byte
// buffer transcoded from UTF-16 to the ANSI code page, then pins that
// buffer the way the blittable-array path does (§4.4 "AnsiString").
func ansiStringForward(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperStringToAnsi)
	pinned := e.NewLocal(m.ManagedType, true)
	e.StoreLocal(pinned)
	e.LoadLocal(pinned)
	m.NativeHome.Store(e)
}

func ansiStringReverse(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.NativeHome.LoadValue(e)
	e.CallHelper(typesystem.HelperAnsiStringToString)
	m.ManagedHome.Store(e)
}

// stringBuilderForward delegates to GetEmptyStringBuilderBuffer and
// proceeds through the blittable-array pin path (§4.4
// "UnicodeStringBuilder").
func stringBuilderForward(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperGetEmptyStringBuilderBuffer)
	pinned := e.NewLocal(m.ManagedType, true)
	e.StoreLocal(pinned)
	e.LoadLocal(pinned)
	m.NativeHome.Store(e)
}

// stringBuilderReverse calls the StringBuilder's ReplaceBuffer with
// the native pointer (§4.4, §8 scenario 6).
func stringBuilderReverse(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	m.NativeHome.LoadValue(e)
	e.CallHelper(typesystem.HelperStringBuilderReplaceBuffer)
}
