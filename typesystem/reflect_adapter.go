// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package typesystem

import (
	"reflect"
)

// reflectType adapts a reflect.Type to the Type interface. Grounded on
// typecache.go's buildTypeDescriptor, which does the same Kind/Elem
// dispatch directly against reflect.Type without an intermediate
// abstraction; here the abstraction exists because a second
// implementation (statictypesystem.go, over go/types.Type) must answer
// the same questions.
type reflectType struct {
	t     reflect.Type
	byRef bool
}

// NewReflectType wraps a reflect.Type for use as a pinvoke.MethodPolicy /
// classifier input. byRef marks a managed by-reference (ref/out)
// parameter; reflect has no native by-ref type for non-pointer kinds,
// so the caller tracks that out of band the way a real compiler's
// parameter metadata would.
func NewReflectType(t reflect.Type, byRef bool) Type {
	return &reflectType{t: t, byRef: byRef}
}

func (r *reflectType) Kind() ValueKind {
	if r.byRef {
		return r.kindOf(r.t)
	}
	return r.kindOf(r.t)
}

func (r *reflectType) kindOf(t reflect.Type) ValueKind {
	switch t.Kind() {
	case reflect.Invalid:
		return KindInvalid
	case reflect.Bool:
		return KindBool
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return KindInt
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return KindUint
	case reflect.Uintptr:
		return KindUintPtr
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Ptr:
		return KindPointer
	case reflect.Array, reflect.Slice:
		return KindArray
	case reflect.Struct:
		return KindStruct
	case reflect.Func:
		return KindDelegate
	case reflect.Interface:
		return KindInterface
	default:
		return KindInvalid
	}
}

func (r *reflectType) Name() string { return r.t.Name() }

func (r *reflectType) PkgPath() string { return r.t.PkgPath() }

func (r *reflectType) BitSize() int {
	switch r.t.Kind() {
	case reflect.Int8, reflect.Uint8, reflect.Bool:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 32
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 64
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return r.t.Bits()
	default:
		return 0
	}
}

func (r *reflectType) IsByRef() bool { return r.byRef }

func (r *reflectType) Elem() Type {
	if r.byRef {
		return &reflectType{t: r.t}
	}
	switch r.t.Kind() {
	case reflect.Ptr, reflect.Array, reflect.Slice:
		return &reflectType{t: r.t.Elem()}
	default:
		return nil
	}
}

func (r *reflectType) ArrayLen() int {
	if r.t.Kind() == reflect.Array {
		return r.t.Len()
	}
	return 0
}

func (r *reflectType) Blittable() bool {
	switch r.t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8, reflect.Int16, reflect.Uint16,
		reflect.Int32, reflect.Uint32, reflect.Int64, reflect.Uint64,
		reflect.Int, reflect.Uint, reflect.Uintptr, reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return r.Elem().Blittable()
	case reflect.Struct:
		for i := 0; i < r.t.NumField(); i++ {
			f := (&reflectType{t: r.t.Field(i).Type})
			if !f.Blittable() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (r *reflectType) Equal(other Type) bool {
	o, ok := other.(*reflectType)
	if !ok {
		return false
	}
	return r.t == o.t && r.byRef == o.byRef
}

// Underlying returns the wrapped reflect.Type, or nil if t was not
// built by NewReflectType.
func Underlying(t Type) reflect.Type {
	rt, ok := t.(*reflectType)
	if !ok {
		return nil
	}
	return rt.t
}

// reflectRecognizer implements WellKnownRecognizer the way
// typecache.go's getCompatFlag does: match on (PkgPath, Name).
type reflectRecognizer struct{}

// DefaultRecognizer is the built-in, hard-coded WellKnownRecognizer —
// the runtime-reflection equivalent of typecache.go's well-known-type
// switch. config.PolicyProfile supplies a data-driven alternative.
var DefaultRecognizer WellKnownRecognizer = reflectRecognizer{}

func qualifiedName(t Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func (reflectRecognizer) IsStringBuilder(t Type) bool {
	return qualifiedName(t) == "strings.Builder" || qualifiedName(t) == "System.Text.StringBuilder"
}

func (reflectRecognizer) IsSafeHandle(t Type) bool {
	return qualifiedName(t) == "System.Runtime.InteropServices.SafeHandle"
}

func (reflectRecognizer) IsCriticalHandle(t Type) bool {
	return qualifiedName(t) == "System.Runtime.InteropServices.CriticalHandle"
}

func (reflectRecognizer) IsSystemDecimal(t Type) bool {
	return qualifiedName(t) == "System.Decimal"
}

func (reflectRecognizer) IsSystemGuid(t Type) bool {
	return qualifiedName(t) == "System.Guid"
}

func (reflectRecognizer) IsSystemDateTime(t Type) bool {
	return qualifiedName(t) == "System.DateTime" || qualifiedName(t) == "time.Time"
}

func (reflectRecognizer) IsSystemArray(t Type) bool {
	return t.Kind() == KindArray
}

func (reflectRecognizer) IsHandleRef(t Type) bool {
	return qualifiedName(t) == "System.Runtime.InteropServices.HandleRef"
}
