// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"fmt"

	"github.com/pk910/pinvoke-marshal/typesystem"
)

// Marshaller is one instance of the Marshaller Family (§3, §4.3): a
// single parameter or return value's marshalling strategy, bound to
// its classified kind, its Homes, and the shared sibling view needed
// for SizeParamIndex lookups. Instances are created once per stub by
// the orchestrator, live for the duration of emission, and are then
// discarded (§3 Lifecycle).
type Marshaller struct {
	Kind        MarshallerKind
	ElementKind ElementKind
	Role        MarshallerRole
	Direction   Direction

	ManagedType      typesystem.Type // by-reference unwrapped
	ManagedParamType typesystem.Type // as declared, possibly by-reference

	nativeType      *NativeType
	nativeParamType *NativeType

	In       bool
	Out      bool
	Return   bool
	Optional bool

	IsManagedByRef bool
	IsNativeByRef  bool

	// Index is this marshaller's ordinal in the method's signature:
	// parameters are numbered from 1 and the return value is index 0
	// per §3 invariants ("return ⇒ index = 0").
	Index int

	Descriptor MarshalAsDescriptor

	// Siblings is a shared, non-owning view of every marshaller for the
	// enclosing stub (design notes §9: "siblings are referenced through
	// a shared, non-owning view of the marshaller vector"), used by the
	// array kinds to resolve SizeParamIndex.
	Siblings *[]*Marshaller

	ManagedHome Home
	NativeHome  Home

	policy MethodPolicy
	hooks  *hookTable

	dangerousAddRefEmitted bool

	// emitErr carries the first error a hook encountered (e.g. an
	// out-of-range SizeParamIndex discovered while resolving an array's
	// element count); hooks have no error return of their own since
	// most never fail, so EmitMarshallingIL checks this after driving
	// the base template instead.
	emitErr error
}

// fail records err as m's emission failure if one hasn't already been
// recorded, so the first failure wins.
func (m *Marshaller) fail(err error) {
	if m.emitErr == nil {
		m.emitErr = err
	}
}

// NewMarshaller classifies t under meta/policy and constructs the
// corresponding Marshaller, or returns ErrUnsupportedSignature if the
// classifier rejects the signature outright, or ErrInternalInvariant
// for combinations asserted against at construction (§12.2: combined
// [In,Out] on SafeHandle).
func NewMarshaller(t typesystem.Type, meta ParameterMetadata, policy MethodPolicy, dir Direction, index int) (*Marshaller, error) {
	isByRef := t.IsByRef()
	unwrapped := t
	if isByRef {
		unwrapped = t.Elem()
	}

	kind, elemKind := Classify(unwrapped, meta, policy)
	if kind == KindInvalid {
		return nil, fmt.Errorf("%w: parameter %d classified Invalid", ErrUnsupportedSignature, index)
	}
	if kind == KindArray && elemKind == KindInvalid {
		return nil, fmt.Errorf("%w: parameter %d", ErrArrayElementKind, index)
	}

	in, out := ResolveInOut(kind, isByRef, meta)

	if kind == KindSafeHandle && isByRef && in && out {
		return nil, fmt.Errorf("%w: combined [In,Out] on SafeHandle is unsupported", ErrInternalInvariant)
	}

	m := &Marshaller{
		Kind:             kind,
		ElementKind:      elemKind,
		Role:             meta.Role,
		Direction:        dir,
		ManagedType:      unwrapped,
		ManagedParamType: t,
		In:               in,
		Out:              out,
		Return:           meta.IsReturnValue,
		Optional:         false,
		IsManagedByRef:   isByRef,
		Index:            index,
		Descriptor:       meta.MarshalAs,
		policy:           policy,
	}

	if meta.IsReturnValue && index != 0 {
		return nil, fmt.Errorf("%w: return value must be index 0", ErrInternalInvariant)
	}

	hooks, ok := lookupHooks(kind)
	if !ok {
		return nil, fmt.Errorf("%w: kind %s has no registered emission hooks", ErrUnsupportedSignature, kind)
	}
	m.hooks = hooks

	nt, err := MapNativeType(kind, elemKind, m.Descriptor, unwrapped)
	if err != nil {
		return nil, err
	}
	m.nativeType = &nt
	m.IsNativeByRef = isByRef
	if isByRef {
		p := nt.AsPointer()
		m.nativeParamType = &p
	} else {
		m.nativeParamType = &nt
	}

	return m, nil
}

// NativeType returns the native representation type, computed once in
// NewMarshaller.
func (m *Marshaller) NativeType() NativeType { return *m.nativeType }

// NativeParamType returns the native representation of the parameter
// slot itself: a pointer to NativeType() when IsNativeByRef, else
// NativeType() directly (§3: "isNativeByRef ⇒ nativeParamType is a
// pointer to nativeType").
func (m *Marshaller) NativeParamType() NativeType { return *m.nativeParamType }

// setupHomes implements §4.3 step 1 for the Forward/Argument entry: if
// managed-by-reference, allocate a fresh local to hold the dereferenced
// value; otherwise bind the managed home to the argument slot directly.
// Always allocate a native local for the native home.
func (m *Marshaller) setupHomes(b *Bundle) {
	if m.IsManagedByRef {
		local := b.Emitter.NewLocal(m.ManagedType, false)
		m.ManagedHome = LocalHome(local, m.ManagedType)
	} else if m.Role == RoleArgument && !m.Return {
		m.ManagedHome = ArgHome(m.Index, m.ManagedType)
	} else {
		local := b.Emitter.NewLocal(m.ManagedType, false)
		m.ManagedHome = LocalHome(local, m.ManagedType)
	}
	nativeLocal := b.Emitter.NewLocal(nil, false)
	m.NativeHome = LocalHome(nativeLocal, m.ManagedType)
}

// emitMarshalArgumentManagedToNative is the Forward-argument template
// of §4.3: setup, propagate-in, marshal, call-site, unmarshal, cleanup.
func (m *Marshaller) emitMarshalArgumentManagedToNative(b *Bundle) {
	b.BeginMarshalling()
	m.setupHomes(b)

	if m.IsManagedByRef && m.In {
		b.Emitter.LoadArg(m.Index)
		b.Emitter.LoadIndirect(m.ManagedType)
		m.ManagedHome.Store(b.Emitter)
	}

	if m.IsManagedByRef && !m.In {
		if m.hooks.reInitNativeTransform != nil {
			m.hooks.reInitNativeTransform(m, b)
		}
	} else if m.hooks.allocAndTransformManagedToNative != nil {
		m.hooks.allocAndTransformManagedToNative(m, b)
	}

	b.BeginCallSite()
	if m.hooks.loadCallSite != nil {
		m.hooks.loadCallSite(m, b)
	} else if m.IsNativeByRef {
		m.NativeHome.LoadAddress(b.Emitter)
	} else {
		m.NativeHome.LoadValue(b.Emitter)
	}

	if m.Out {
		b.BeginUnmarshalling()
		if m.In && m.Out && m.hooks.clearManagedTransform != nil {
			m.hooks.clearManagedTransform(m, b)
		}
		if m.IsManagedByRef && !m.In && m.hooks.allocNativeToManaged != nil {
			m.hooks.allocNativeToManaged(m, b)
		}
		if m.hooks.transformNativeToManaged != nil {
			m.hooks.transformNativeToManaged(m, b)
		}
		if m.IsManagedByRef {
			m.ManagedHome.LoadValue(b.Emitter)
			b.Emitter.LoadArg(m.Index)
			b.Emitter.StoreIndirect(m.ManagedType)
		}
	}

	b.BeginCleanup()
	if m.hooks.cleanup != nil {
		m.hooks.cleanup(m, b)
	}
}

// emitMarshalReturnValueManagedToNative implements the return-value
// path (§4.3: "Return value is handled in the dedicated return-value
// stream: native value is stored, converted to managed, then loaded
// as the final result").
func (m *Marshaller) emitMarshalReturnValueManagedToNative(b *Bundle) {
	b.BeginReturnValue()
	nativeLocal := b.Emitter.NewLocal(m.ManagedType, false)
	m.NativeHome = LocalHome(nativeLocal, m.ManagedType)
	m.NativeHome.Store(b.Emitter)

	managedLocal := b.Emitter.NewLocal(m.ManagedType, false)
	m.ManagedHome = LocalHome(managedLocal, m.ManagedType)

	if m.hooks.transformNativeToManaged != nil {
		m.hooks.transformNativeToManaged(m, b)
	}
	m.ManagedHome.LoadValue(b.Emitter)
}

// emitMarshalArgumentNativeToManaged is the Reverse-argument template
// (§4.3: "the mirror image, with setup/propagation operating on the
// native side and unmarshalling writing back through the
// native-by-reference pointer").
func (m *Marshaller) emitMarshalArgumentNativeToManaged(b *Bundle) {
	b.BeginMarshalling()
	managedLocal := b.Emitter.NewLocal(m.ManagedType, false)
	m.ManagedHome = LocalHome(managedLocal, m.ManagedType)
	if m.IsNativeByRef {
		nativeLocal := b.Emitter.NewLocal(m.ManagedType, false)
		m.NativeHome = LocalHome(nativeLocal, m.ManagedType)
	} else {
		m.NativeHome = ArgHome(m.Index, m.ManagedType)
	}

	fwd := m.hooks.reverseAllocAndTransform
	if fwd == nil {
		fwd = m.hooks.allocAndTransformManagedToNative
	}
	if m.In && fwd != nil {
		fwd(m, b)
	}

	b.BeginUnmarshalling()
	if m.Out {
		transform := m.hooks.reverseTransform
		if transform == nil {
			transform = m.hooks.transformNativeToManaged
		}
		if transform != nil {
			transform(m, b)
		}
		if m.IsNativeByRef {
			m.NativeHome.LoadValue(b.Emitter)
			b.Emitter.LoadArg(m.Index)
			b.Emitter.StoreIndirect(m.ManagedType)
		}
	}

	b.BeginCleanup()
	if m.hooks.cleanup != nil {
		m.hooks.cleanup(m, b)
	}
}

// EmitMarshallingIL drives this marshaller through its direction- and
// role-appropriate entry point (§4.3 "Entry (selected by role ×
// direction)").
func (m *Marshaller) EmitMarshallingIL(b *Bundle) error {
	if m.hooks == nil {
		return fmt.Errorf("%w: kind %s has no emission hooks bound", ErrUnsupportedSignature, m.Kind)
	}
	switch {
	case m.Role == RoleArgument && m.Direction == DirectionForward && m.Return:
		m.emitMarshalReturnValueManagedToNative(b)
	case m.Role == RoleArgument && m.Direction == DirectionForward:
		m.emitMarshalArgumentManagedToNative(b)
	case m.Role == RoleArgument && m.Direction == DirectionReverse:
		m.emitMarshalArgumentNativeToManaged(b)
	case m.Role == RoleElement:
		m.emitMarshalElement(b)
	default:
		return fmt.Errorf("%w: role %s has no base-protocol entry point", ErrInternalInvariant, m.Role)
	}
	return m.emitErr
}

// emitMarshalElement is the Element role entry point (§4.3: "Element
// role uses its own setup (both homes are locals), operates on a value
// already on the evaluation stack, and leaves the converted value on
// the stack for the caller to store into an array slot"). The
// enclosing array marshaller pushes one element before calling this
// and consumes the one value it leaves behind.
func (m *Marshaller) emitMarshalElement(b *Bundle) {
	e := b.Emitter
	managedLocal := e.NewLocal(m.ManagedType, false)
	m.ManagedHome = LocalHome(managedLocal, m.ManagedType)
	nativeLocal := e.NewLocal(m.ManagedType, false)
	m.NativeHome = LocalHome(nativeLocal, m.ManagedType)

	if m.Direction == DirectionForward {
		m.ManagedHome.Store(e)
		if m.hooks.allocAndTransformManagedToNative != nil {
			m.hooks.allocAndTransformManagedToNative(m, b)
		}
		m.NativeHome.LoadValue(e)
		return
	}

	m.NativeHome.Store(e)
	if m.hooks.transformNativeToManaged != nil {
		m.hooks.transformNativeToManaged(m, b)
	}
	m.ManagedHome.LoadValue(e)
}
