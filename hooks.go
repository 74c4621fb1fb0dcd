// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

// hookTable groups the per-kind emission overrides the base protocol
// (§4.3) calls into at fixed points. Design notes §9 prefers this over
// inheritance: "an explicit sum type over MarshallerKind with a
// dispatch table of hook functions ... Base-template behaviour is the
// default; variants override a small number of hooks." A nil field
// means "use marshaller.go's own base-template behaviour for this
// hook"; every kind in kinds_*.go only sets the hooks it needs to
// override.
type hookTable struct {
	// allocAndTransformManagedToNative implements the Forward "Marshal"
	// step (§4.3 step 3) for the common case: allocate any unmanaged
	// resources, then copy/convert the managed value into the native
	// home.
	allocAndTransformManagedToNative func(m *Marshaller, b *Bundle)

	// reInitNativeTransform implements the same step's alternate branch,
	// taken when the parameter is managed-by-reference and not `in`:
	// zero the native home instead of converting a value.
	reInitNativeTransform func(m *Marshaller, b *Bundle)

	// transformNativeToManaged implements the Unmarshal step (§4.3 step 5):
	// convert the (possibly just-called-into) native home back into the
	// managed home.
	transformNativeToManaged func(m *Marshaller, b *Bundle)

	// clearManagedTransform runs ahead of transformNativeToManaged when
	// both `in` and `out` are set, to discard any stale managed-side
	// state before the fresh conversion.
	clearManagedTransform func(m *Marshaller, b *Bundle)

	// allocNativeToManaged materialises the managed container ahead of
	// transformNativeToManaged, for the managed-by-reference-and-not-in
	// unmarshalling path.
	allocNativeToManaged func(m *Marshaller, b *Bundle)

	// cleanup implements the Cleanup step (§4.3 step 6): release any
	// unmanaged resources the transform steps allocated.
	cleanup func(m *Marshaller, b *Bundle)

	// loadCallSite overrides the default call-site push (load native
	// home value, or its address when isNativeByRef). Most kinds leave
	// this nil.
	loadCallSite func(m *Marshaller, b *Bundle)

	// reverseAllocAndTransform and reverseTransform are the Reverse
	// (native→managed) mirrors of the two Forward transform hooks;
	// nil falls back to the same function as the Forward hook, since
	// most kinds (VoidReturn, BlittableValue, Bool, ...) are symmetric.
	reverseAllocAndTransform func(m *Marshaller, b *Bundle)
	reverseTransform         func(m *Marshaller, b *Bundle)
}

var hookRegistry = map[MarshallerKind]*hookTable{}

// registerHooks installs h as the hook table for kind. Called from
// init() in each kinds_*.go file.
func registerHooks(kind MarshallerKind, h *hookTable) {
	hookRegistry[kind] = h
}

// lookupHooks returns the registered hook table for kind, or false if
// no component ever registered emission hooks for it (§12.1: these
// kinds are classified but rejected by the orchestrator).
func lookupHooks(kind MarshallerKind) (*hookTable, bool) {
	h, ok := hookRegistry[kind]
	return h, ok
}
