// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package typesystem

import (
	"go/types"
)

// staticType adapts a go/types.Type to the Type interface, the way
// codegen/parser.go's buildTypeDescriptor resolves *types.Named/
// *types.Pointer/*types.Alias chains down to an underlying shape before
// switching on it. Used by cmd/pinvokegen, which type-checks an
// annotated Go package with go/packages instead of loading it at
// runtime with reflection.
type staticType struct {
	named *types.Named // nil for unnamed/basic types
	t     types.Type   // underlying type (a pointer stays a pointer)
	byRef bool
}

// NewStaticType wraps a go/types.Type resolved by go/packages. byRef
// mirrors NewReflectType's byRef parameter: static analysis sees a Go
// pointer either way, so the caller (internal/static) tracks whether it
// stands for a managed ref/out parameter or a genuine pointer kind.
func NewStaticType(t types.Type, byRef bool) Type {
	st := &staticType{t: t, byRef: byRef}
	if named, ok := t.(*types.Named); ok {
		st.named = named
		st.t = named.Underlying()
	}
	return st
}

func (s *staticType) Kind() ValueKind {
	switch t := s.t.(type) {
	case *types.Basic:
		switch t.Info() {
		case types.IsBoolean:
			return KindBool
		}
		switch t.Kind() {
		case types.Bool:
			return KindBool
		case types.Int8, types.Int16, types.Int32, types.Int64, types.Int:
			return KindInt
		case types.Uint8, types.Uint16, types.Uint32, types.Uint64, types.Uint:
			return KindUint
		case types.Uintptr:
			return KindUintPtr
		case types.Float32, types.Float64:
			return KindFloat
		case types.String:
			return KindString
		default:
			return KindInvalid
		}
	case *types.Pointer:
		return KindPointer
	case *types.Array, *types.Slice:
		return KindArray
	case *types.Struct:
		if s.named != nil && isEnumLike(s.named) {
			return KindEnum
		}
		return KindStruct
	case *types.Signature:
		return KindDelegate
	case *types.Interface:
		return KindInterface
	default:
		return KindInvalid
	}
}

// isEnumLike has no real analogue for go/types (Go has no enum kind);
// static analysis of managed enums is out of scope for this module's
// Go stand-in front end, and its struct tags have no way to declare
// an enum either. Always false here, so no static type is KindEnum.
func isEnumLike(*types.Named) bool { return false }

func (s *staticType) Name() string {
	if s.named != nil {
		return s.named.Obj().Name()
	}
	return ""
}

func (s *staticType) PkgPath() string {
	if s.named != nil && s.named.Obj().Pkg() != nil {
		return s.named.Obj().Pkg().Path()
	}
	return ""
}

func (s *staticType) BitSize() int {
	basic, ok := s.t.(*types.Basic)
	if !ok {
		return 0
	}
	switch basic.Kind() {
	case types.Int8, types.Uint8, types.Bool:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32, types.Float32:
		return 32
	case types.Int64, types.Uint64, types.Float64, types.Int, types.Uint, types.Uintptr:
		return 64
	default:
		return 0
	}
}

func (s *staticType) IsByRef() bool { return s.byRef }

func (s *staticType) Elem() Type {
	if s.byRef {
		return &staticType{t: s.t, named: s.named}
	}
	switch t := s.t.(type) {
	case *types.Pointer:
		return NewStaticType(t.Elem(), false)
	case *types.Array:
		return NewStaticType(t.Elem(), false)
	case *types.Slice:
		return NewStaticType(t.Elem(), false)
	default:
		return nil
	}
}

func (s *staticType) ArrayLen() int {
	if arr, ok := s.t.(*types.Array); ok {
		return int(arr.Len())
	}
	return 0
}

func (s *staticType) Blittable() bool {
	switch t := s.t.(type) {
	case *types.Basic:
		switch t.Kind() {
		case types.Bool, types.Int8, types.Uint8, types.Int16, types.Uint16,
			types.Int32, types.Uint32, types.Int64, types.Uint64,
			types.Int, types.Uint, types.Uintptr, types.Float32, types.Float64:
			return true
		default:
			return false
		}
	case *types.Array:
		return NewStaticType(t.Elem(), false).Blittable()
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			if !NewStaticType(t.Field(i).Type(), false).Blittable() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (s *staticType) Equal(other Type) bool {
	o, ok := other.(*staticType)
	if !ok {
		return false
	}
	return types.Identical(s.t, o.t) && s.byRef == o.byRef
}
