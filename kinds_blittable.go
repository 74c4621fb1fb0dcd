// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

func init() {
	registerHooks(KindVoidReturn, &hookTable{
		// VoidReturn emits nothing in either direction (§4.4).
	})

	registerHooks(KindBlittableValue, &hookTable{
		allocAndTransformManagedToNative: blittablePassThrough,
		transformNativeToManaged:         blittablePassThrough,
		loadCallSite:                     blittableLoadCallSite,
	})

	registerHooks(KindEnum, &hookTable{
		allocAndTransformManagedToNative: blittablePassThrough,
		transformNativeToManaged:         blittablePassThrough,
	})

	registerHooks(KindBool, &hookTable{
		allocAndTransformManagedToNative: canonicalizeBoolForward,
		transformNativeToManaged:         canonicalizeBoolReverse,
	})

	registerHooks(KindCBool, &hookTable{
		allocAndTransformManagedToNative: canonicalizeBoolForward,
		transformNativeToManaged:         canonicalizeBoolReverse,
	})
}

// blittablePassThrough copies the managed home straight into the
// native home with no conversion (§4.4 "fast path — no conversion").
func blittablePassThrough(m *Marshaller, b *Bundle) {
	m.ManagedHome.LoadValue(b.Emitter)
	m.NativeHome.Store(b.Emitter)
}

// blittableLoadCallSite implements BlittableValue's Forward call-site
// override (§4.4): if native-by-reference, pin the managed by-reference
// argument and convert its pinned address to a native integer; else
// pass the argument directly.
func blittableLoadCallSite(m *Marshaller, b *Bundle) {
	if m.IsNativeByRef && m.IsManagedByRef {
		local := b.Emitter.NewLocal(m.ManagedType, true)
		b.Emitter.LoadArg(m.Index)
		b.Emitter.LoadIndirect(m.ManagedType)
		b.Emitter.StoreLocal(local)
		b.Emitter.LoadLocalAddr(local)
		b.Emitter.ConvI()
		return
	}
	m.NativeHome.LoadValue(b.Emitter)
}

// canonicalizeBoolForward normalises a managed boolean to the native
// boolean width with the idiom `(x == 0) == 0` (§4.4 "Boolean"), i.e.
// an explicit 0/1 canonicalisation rather than a raw bit copy.
func canonicalizeBoolForward(m *Marshaller, b *Bundle) {
	m.ManagedHome.LoadValue(b.Emitter)
	b.Emitter.LdcI4(0)
	b.Emitter.Ceq()
	b.Emitter.LdcI4(0)
	b.Emitter.Ceq()
	m.NativeHome.Store(b.Emitter)
}

func canonicalizeBoolReverse(m *Marshaller, b *Bundle) {
	m.NativeHome.LoadValue(b.Emitter)
	b.Emitter.LdcI4(0)
	b.Emitter.Ceq()
	b.Emitter.LdcI4(0)
	b.Emitter.Ceq()
	m.ManagedHome.Store(b.Emitter)
}
