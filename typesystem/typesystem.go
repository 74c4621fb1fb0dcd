// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Package typesystem declares the managed type-system surface the
// marshalling generator consumes. The generator never resolves types,
// parses source, or owns a type graph itself — spec.md §1 puts all of
// that in "the enclosing compiler pipeline", an external collaborator.
// This package is the seam: a TypeSystem implementation is supplied by
// the host (reflection at runtime, go/types at compile time) and the
// generator only ever calls through this interface.
package typesystem

// ValueKind is the shape of a managed type, coarse enough for the
// classifier's decision tree (spec.md §4.1) without needing the full
// richness of a CLR type.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindVoid
	KindBool
	KindChar
	KindInt
	KindUint
	KindIntPtr
	KindUintPtr
	KindFloat
	KindPointer
	KindString
	KindEnum
	KindStruct
	KindArray
	KindDelegate
	KindInterface
)

// Type is a managed type as seen by the classifier and native-type
// mapper. Implementations wrap either reflect.Type (runtime) or
// go/types.Type (compile-time static analysis); see reflect_adapter.go
// and statictypesystem.go.
type Type interface {
	// Kind returns the coarse shape of the type.
	Kind() ValueKind

	// Name is the unqualified type name, empty for unnamed types.
	Name() string

	// PkgPath is the defining package path, empty for predeclared types.
	PkgPath() string

	// BitSize is the width in bits for Int/Uint/Float kinds.
	BitSize() int

	// IsByRef reports whether this is a by-reference (ref/out) wrapper;
	// Elem() unwraps it for such types.
	IsByRef() bool

	// Elem returns the pointee for IsByRef()/KindPointer/KindArray types,
	// or the enum's underlying integer type for KindEnum.
	Elem() Type

	// ArrayLen returns the fixed length for a by-value (ByValArray)
	// array shape, 0 for a variable-length / reference array.
	ArrayLen() int

	// Blittable reports whether the managed and native bit-layouts of
	// this type are identical (spec.md GLOSSARY: "Blittable").
	Blittable() bool

	// Equal reports whether two Type values denote the same managed type.
	Equal(other Type) bool
}

// WellKnownRecognizer answers the "is this managed type a well-known
// interop type" questions spec.md §3's MethodPolicy needs, independent
// of which TypeSystem implementation supplied the Type.
type WellKnownRecognizer interface {
	IsStringBuilder(t Type) bool
	IsSafeHandle(t Type) bool
	IsCriticalHandle(t Type) bool
	IsSystemDecimal(t Type) bool
	IsSystemGuid(t Type) bool
	IsSystemDateTime(t Type) bool
	IsSystemArray(t Type) bool
	IsHandleRef(t Type) bool
}

// HelperID names a well-known runtime/marshalling helper method the
// generator calls into by identity rather than by free-form string
// lookup (spec.md §6, design notes §9). Resolution against the host's
// actual symbol table is the TypeSystem implementation's job.
type HelperID uint8

const (
	HelperNone HelperID = iota
	HelperCoTaskMemAllocAndZeroMemory
	HelperCoTaskMemFree
	HelperStringToAnsi
	HelperAnsiStringToString
	HelperGetEmptyStringBuilderBuffer
	HelperGetStubForPInvokeDelegate
	HelperGetOffsetToStringData
	HelperSafeHandleDangerousAddRef
	HelperSafeHandleDangerousRelease
	HelperSafeHandleDangerousGetHandle
	HelperSafeHandleSetHandle
	HelperStringBuilderReplaceBuffer
)

// HelperResolver resolves a HelperID to whatever token/handle the host
// compiler's emitter needs to reference it (a method token, an import,
// an intrinsic id — opaque to this module).
type HelperResolver interface {
	Resolve(id HelperID) (any, error)
}
