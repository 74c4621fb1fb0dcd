// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

func init() {
	registerHooks(KindSafeHandle, &hookTable{
		allocAndTransformManagedToNative: safeHandleForward,
		transformNativeToManaged:         safeHandleUnmarshal,
		cleanup:                          safeHandleCleanup,
		reverseAllocAndTransform:         safeHandleReverseConstruct,
	})

	registerHooks(KindFunctionPointer, &hookTable{
		allocAndTransformManagedToNative: functionPointerForward,
	})
}

// safeHandleForward implements the two SafeHandle Forward branches of
// §4.4: if `out` and by-reference, pre-allocate a fresh handle object
// and pass a zeroed pointer-sized out cell to the call; otherwise
// invoke DangerousAddRef (remembered so cleanup can balance it) and
// pass DangerousGetHandle's result.
func safeHandleForward(m *Marshaller, b *Bundle) {
	e := b.Emitter
	if m.Out && m.IsManagedByRef {
		e.Newobj("System.Runtime.InteropServices.SafeHandle..ctor()")
		m.ManagedHome.Store(e)
		e.LdcI4(0)
		e.ConvI()
		m.NativeHome.Store(e)
		return
	}
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperSafeHandleDangerousAddRef)
	m.dangerousAddRefEmitted = true
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperSafeHandleDangerousGetHandle)
	m.NativeHome.Store(e)
}

// safeHandleUnmarshal writes the native call's raw out handle back
// into the pre-allocated managed SafeHandle object (§4.4's `out`
// by-reference branch); it is a no-op when the forward path instead
// took the DangerousAddRef/DangerousRelease branch, since that branch
// has nothing to propagate back.
func safeHandleUnmarshal(m *Marshaller, b *Bundle) {
	if m.dangerousAddRefEmitted {
		return
	}
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	m.NativeHome.LoadValue(e)
	e.CallHelper(typesystem.HelperSafeHandleSetHandle)
}

// safeHandleCleanup balances a DangerousAddRef emitted in the forward
// path with DangerousRelease, run unconditionally after the call site
// (§4.4, §5 "the release must be guaranteed-execution").
func safeHandleCleanup(m *Marshaller, b *Bundle) {
	if !m.dangerousAddRefEmitted {
		return
	}
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperSafeHandleDangerousRelease)
}

// safeHandleReverseConstruct implements the Reverse direction: "construct
// a fresh handle and set its raw value from the native input" (§4.4).
func safeHandleReverseConstruct(m *Marshaller, b *Bundle) {
	e := b.Emitter
	e.Newobj("System.Runtime.InteropServices.SafeHandle..ctor()")
	m.ManagedHome.Store(e)
	m.ManagedHome.LoadValue(e)
	m.NativeHome.LoadValue(e)
	e.CallHelper(typesystem.HelperSafeHandleSetHandle)
}

// functionPointerForward invokes the helper that returns the stable
// native stub pointer for the managed delegate and stores it as the
// native value (§4.4 "FunctionPointer").
func functionPointerForward(m *Marshaller, b *Bundle) {
	e := b.Emitter
	m.ManagedHome.LoadValue(e)
	e.CallHelper(typesystem.HelperGetStubForPInvokeDelegate)
	m.NativeHome.Store(e)
}
