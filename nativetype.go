// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"fmt"

	"github.com/pk910/pinvoke-marshal/typesystem"
)

// NativeKind is the shape of a native representation type: either a
// fixed-width scalar, a pointer to another NativeType, or a pass
// through of the managed type itself (for kinds where the native and
// managed representations are the same declared type, e.g. structs).
type NativeKind uint8

const (
	NativeKindInvalid NativeKind = iota
	NativeKindInt8
	NativeKindUint8
	NativeKindInt16
	NativeKindUint16
	NativeKindInt32
	NativeKindUint32
	NativeKindInt64
	NativeKindUint64
	NativeKindFloat32
	NativeKindFloat64
	NativeKindPointerWidthInt
	NativeKindPointer
	NativeKindManaged
)

// NativeType is the Native-Type Mapper's (§4.2) output: the native
// representation a MarshallerKind is lowered to.
type NativeType struct {
	Kind    NativeKind
	Pointee *NativeType     // valid when Kind == NativeKindPointer
	Managed typesystem.Type // valid when Kind == NativeKindManaged
}

// AsPointer wraps n as the pointee of a new pointer NativeType — the
// "if the marshaller is by-reference, the parameter native type is a
// pointer to the native type" rule at the end of §4.2.
func (n NativeType) AsPointer() NativeType {
	cp := n
	return NativeType{Kind: NativeKindPointer, Pointee: &cp}
}

// NativeShapeType adapts n to the typesystem.Type surface Emitter.Sizeof
// and the Ldelem/Stelem family expect, since those only understand the
// managed type system, not NativeKind. NativeKindManaged defers to the
// wrapped managed type directly (its native and managed layouts
// coincide); every other NativeKind is a fixed-width scalar or a
// pointer, so BitSize alone is enough to report its native size.
func (n NativeType) NativeShapeType() typesystem.Type {
	return nativeShapeType{nt: n}
}

// nativeShapeType is the unexported typesystem.Type implementation
// NativeShapeType hands back, the same adapter role reflect_adapter.go
// and statictypesystem.go play for the two real TypeSystem backends.
type nativeShapeType struct {
	nt NativeType
}

func (s nativeShapeType) Kind() typesystem.ValueKind {
	switch s.nt.Kind {
	case NativeKindManaged:
		return s.nt.Managed.Kind()
	case NativeKindFloat32, NativeKindFloat64:
		return typesystem.KindFloat
	case NativeKindInt8, NativeKindInt16, NativeKindInt32, NativeKindInt64:
		return typesystem.KindInt
	case NativeKindUint8, NativeKindUint16, NativeKindUint32, NativeKindUint64:
		return typesystem.KindUint
	default: // pointer, pointer-width int
		return typesystem.KindUintPtr
	}
}

func (s nativeShapeType) Name() string    { return "" }
func (s nativeShapeType) PkgPath() string { return "" }

func (s nativeShapeType) BitSize() int {
	switch s.nt.Kind {
	case NativeKindInt8, NativeKindUint8:
		return 8
	case NativeKindInt16, NativeKindUint16:
		return 16
	case NativeKindInt32, NativeKindUint32, NativeKindFloat32:
		return 32
	case NativeKindInt64, NativeKindUint64, NativeKindFloat64:
		return 64
	case NativeKindManaged:
		return s.nt.Managed.BitSize()
	default: // pointer, pointer-width int: platform word size
		return 64
	}
}

func (s nativeShapeType) IsByRef() bool { return false }

func (s nativeShapeType) Elem() typesystem.Type {
	if s.nt.Kind == NativeKindPointer && s.nt.Pointee != nil {
		return s.nt.Pointee.NativeShapeType()
	}
	return nil
}

func (s nativeShapeType) ArrayLen() int   { return 0 }
func (s nativeShapeType) Blittable() bool { return true }

func (s nativeShapeType) Equal(other typesystem.Type) bool {
	o, ok := other.(nativeShapeType)
	return ok && o.nt.Kind == s.nt.Kind
}

// MapNativeType is the Native-Type Mapper (§4.2): a pure function from
// a classified kind (plus its element kind, descriptor, and managed
// type) to the native representation type.
func MapNativeType(kind MarshallerKind, elementKind ElementKind, desc MarshalAsDescriptor, managed typesystem.Type) (NativeType, error) {
	switch kind {
	case KindBlittableValue:
		if nk, ok := widthSignFromTag(desc.Tag); ok {
			return NativeType{Kind: nk}, nil
		}
		return NativeType{Kind: NativeKindManaged, Managed: managed}, nil

	case KindBool:
		return NativeType{Kind: NativeKindInt32}, nil
	case KindCBool:
		return NativeType{Kind: NativeKindUint8}, nil

	case KindUnicodeChar:
		if desc.Tag == NativeTypeTagU2 {
			return NativeType{Kind: NativeKindUint16}, nil
		}
		return NativeType{Kind: NativeKindInt16}, nil

	case KindOleDateTime:
		return NativeType{Kind: NativeKindFloat64}, nil

	case KindSafeHandle, KindCriticalHandle, KindHandleRef, KindFunctionPointer:
		return NativeType{Kind: NativeKindPointerWidthInt}, nil

	case KindUnicodeString, KindUnicodeStringBuilder:
		return NativeType{Kind: NativeKindPointer, Pointee: &NativeType{Kind: NativeKindUint16}}, nil

	case KindAnsiString, KindAnsiStringBuilder:
		return NativeType{Kind: NativeKindPointer, Pointee: &NativeType{Kind: NativeKindUint8}}, nil

	case KindArray, KindBlittableArray, KindAnsiCharArray:
		elemDesc := MarshalAsDescriptor{}
		elemNative, err := MapNativeType(elementKind, KindInvalid, elemDesc, managed.Elem())
		if err != nil {
			return NativeType{}, fmt.Errorf("pinvoke: mapping array element native type: %w", err)
		}
		return NativeType{Kind: NativeKindPointer, Pointee: &elemNative}, nil

	case KindBlittableStructPtr:
		return NativeType{Kind: NativeKindPointer, Pointee: &NativeType{Kind: NativeKindManaged, Managed: managed}}, nil

	case KindEnum, KindBlittableStruct, KindStruct, KindDecimal, KindVoidReturn:
		return NativeType{Kind: NativeKindManaged, Managed: managed}, nil

	case KindByValArray, KindByValAnsiCharArray, KindUnknown:
		return NativeType{}, fmt.Errorf("%w: kind %s has no native representation at this layer", ErrUnsupportedSignature, kind)

	default:
		return NativeType{}, fmt.Errorf("%w: kind %s has no native-type mapping", ErrUnsupportedSignature, kind)
	}
}

func widthSignFromTag(tag NativeTypeTag) (NativeKind, bool) {
	switch tag {
	case NativeTypeTagI1:
		return NativeKindInt8, true
	case NativeTypeTagU1:
		return NativeKindUint8, true
	case NativeTypeTagI2:
		return NativeKindInt16, true
	case NativeTypeTagU2:
		return NativeKindUint16, true
	case NativeTypeTagI4:
		return NativeKindInt32, true
	case NativeTypeTagU4:
		return NativeKindUint32, true
	case NativeTypeTagI8:
		return NativeKindInt64, true
	case NativeTypeTagU8:
		return NativeKindUint64, true
	case NativeTypeTagR4:
		return NativeKindFloat32, true
	case NativeTypeTagR8:
		return NativeKindFloat64, true
	default:
		return NativeKindInvalid, false
	}
}
