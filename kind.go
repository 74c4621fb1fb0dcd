// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Package pinvoke implements a platform-invoke marshalling stub generator:
// given a managed method signature annotated with native-interop metadata,
// it synthesises a sequence of instructions implementing the bidirectional
// conversion of each argument and return value between a managed calling
// convention and a foreign native ABI.
package pinvoke

// MarshallerKind is the closed set of marshalling strategies the classifier
// can produce. Every constructed Marshaller has a Kind != Unknown; Invalid
// means the signature is unmarshallable and must be rejected by the caller.
type MarshallerKind uint8

const (
	KindUnknown MarshallerKind = iota
	KindInvalid

	KindBlittableValue
	KindEnum
	KindUnicodeChar
	KindAnsiChar
	KindBool
	KindCBool
	KindDecimal
	KindGuid
	KindOleDateTime
	KindStruct
	KindBlittableStruct
	KindBlittableStructPtr
	KindHandleRef
	KindSafeHandle
	KindCriticalHandle
	KindAnsiString
	KindUnicodeString
	KindAnsiStringBuilder
	KindUnicodeStringBuilder
	KindArray
	KindBlittableArray
	KindAnsiCharArray
	KindByValArray
	KindByValAnsiCharArray
	KindFunctionPointer
	KindVariant
	KindObject
	KindVoidReturn
)

func (k MarshallerKind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindInvalid:
		return "Invalid"
	case KindBlittableValue:
		return "BlittableValue"
	case KindEnum:
		return "Enum"
	case KindUnicodeChar:
		return "UnicodeChar"
	case KindAnsiChar:
		return "AnsiChar"
	case KindBool:
		return "Bool"
	case KindCBool:
		return "CBool"
	case KindDecimal:
		return "Decimal"
	case KindGuid:
		return "Guid"
	case KindOleDateTime:
		return "OleDateTime"
	case KindStruct:
		return "Struct"
	case KindBlittableStruct:
		return "BlittableStruct"
	case KindBlittableStructPtr:
		return "BlittableStructPtr"
	case KindHandleRef:
		return "HandleRef"
	case KindSafeHandle:
		return "SafeHandle"
	case KindCriticalHandle:
		return "CriticalHandle"
	case KindAnsiString:
		return "AnsiString"
	case KindUnicodeString:
		return "UnicodeString"
	case KindAnsiStringBuilder:
		return "AnsiStringBuilder"
	case KindUnicodeStringBuilder:
		return "UnicodeStringBuilder"
	case KindArray:
		return "Array"
	case KindBlittableArray:
		return "BlittableArray"
	case KindAnsiCharArray:
		return "AnsiCharArray"
	case KindByValArray:
		return "ByValArray"
	case KindByValAnsiCharArray:
		return "ByValAnsiCharArray"
	case KindFunctionPointer:
		return "FunctionPointer"
	case KindVariant:
		return "Variant"
	case KindObject:
		return "Object"
	case KindVoidReturn:
		return "VoidReturn"
	default:
		return "Invalid"
	}
}

// ElementKind reuses MarshallerKind's tag space to describe the element
// strategy of an Array/ByValArray container; it is Invalid when the
// container itself must be rejected (spec: "elementKind != Invalid,
// otherwise the parent is Invalid").
type ElementKind = MarshallerKind

// MarshallerRole distinguishes whether a marshaller is handling a method
// argument/return, an array element, or a struct field.
type MarshallerRole uint8

const (
	RoleArgument MarshallerRole = iota
	RoleElement
	RoleField
)

func (r MarshallerRole) String() string {
	switch r {
	case RoleArgument:
		return "Argument"
	case RoleElement:
		return "Element"
	case RoleField:
		return "Field"
	default:
		return "Unknown"
	}
}

// Direction is the call direction a marshaller emits for: Forward is
// managed-to-native (the managed side calls out to native code), Reverse
// is native-to-managed (native code calls into a managed callback).
type Direction uint8

const (
	DirectionForward Direction = iota
	DirectionReverse
)

func (d Direction) String() string {
	if d == DirectionReverse {
		return "Reverse"
	}
	return "Forward"
}
