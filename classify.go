// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

// Classify is the Kind Classifier (§4.1): a pure function mapping a
// managed type (already unwrapped of any by-reference wrapper), its
// parameter metadata, the enclosing method's policy, and its role to a
// (MarshallerKind, ElementKind) pair. elementKind is only meaningful
// for the array kinds (Array, BlittableArray, AnsiCharArray, ByValArray,
// ByValAnsiCharArray); it is KindInvalid otherwise.
//
// The well-known-type recognizers are checked before the structural
// Kind() switch, mirroring typecache.go's own well-known-type switch
// running ahead of its general reflect.Kind() dispatch: SafeHandle,
// CriticalHandle, HandleRef and StringBuilder are identified by
// qualified name regardless of whether the underlying shape is a
// struct or a pointer-like reference type.
func Classify(t typesystem.Type, meta ParameterMetadata, policy MethodPolicy) (MarshallerKind, ElementKind) {
	tag := meta.EffectiveMarshalAs()

	if policy.IsSafeHandle(t) {
		if tag != NativeTypeTagNone {
			return KindInvalid, KindInvalid
		}
		return KindSafeHandle, KindInvalid
	}
	if policy.IsCriticalHandle(t) {
		if tag != NativeTypeTagNone {
			return KindInvalid, KindInvalid
		}
		return KindCriticalHandle, KindInvalid
	}
	if policy.IsHandleRef(t) {
		return KindHandleRef, KindInvalid
	}
	if policy.IsStringBuilder(t) {
		return classifyStringLike(tag, policy, true)
	}
	if policy.IsSystemDateTime(t) {
		if tag == NativeTypeTagNone || tag == NativeTypeTagStruct {
			return KindOleDateTime, KindInvalid
		}
		return KindInvalid, KindInvalid
	}
	if policy.IsSystemDecimal(t) {
		switch {
		case tag == NativeTypeTagNone || tag == NativeTypeTagStruct:
			return KindDecimal, KindInvalid
		case tag == NativeTypeTagLPStruct && meta.Role == RoleArgument:
			return KindBlittableStructPtr, KindInvalid
		default:
			return KindInvalid, KindInvalid
		}
	}
	if policy.IsSystemGuid(t) {
		switch {
		case tag == NativeTypeTagLPStruct && meta.Role == RoleArgument:
			return KindBlittableStructPtr, KindInvalid
		case meta.Role == RoleElement:
			return KindBlittableValue, KindInvalid
		case blittable(t):
			return KindBlittableStruct, KindInvalid
		default:
			return KindStruct, KindInvalid
		}
	}

	switch t.Kind() {
	case typesystem.KindVoid:
		if meta.IsReturnValue {
			return KindVoidReturn, KindInvalid
		}
		return KindInvalid, KindInvalid

	case typesystem.KindBool:
		return classifyBool(tag)

	case typesystem.KindChar:
		return classifyChar(tag, policy)

	case typesystem.KindInt, typesystem.KindUint:
		return classifyIntegerWidth(t, tag)

	case typesystem.KindIntPtr, typesystem.KindUintPtr:
		if tag == NativeTypeTagNone {
			return KindBlittableValue, KindInvalid
		}
		return KindInvalid, KindInvalid

	case typesystem.KindFloat:
		return classifyFloat(t, tag)

	case typesystem.KindEnum:
		return KindEnum, KindInvalid

	case typesystem.KindStruct:
		if blittable(t) {
			return KindBlittableStruct, KindInvalid
		}
		return KindStruct, KindInvalid

	case typesystem.KindPointer:
		if tag == NativeTypeTagNone {
			return KindBlittableValue, KindInvalid
		}
		return KindInvalid, KindInvalid

	case typesystem.KindString:
		return classifyStringLike(tag, policy, false)

	case typesystem.KindDelegate:
		if tag == NativeTypeTagNone || tag == NativeTypeTagFunctionPtr {
			return KindFunctionPointer, KindInvalid
		}
		return KindInvalid, KindInvalid

	case typesystem.KindInterface:
		return classifyObject(tag)

	case typesystem.KindArray:
		if meta.Role == RoleField || meta.IsReturnValue {
			if tag == NativeTypeTagByValArray {
				return classifyByValArray(t, meta, policy)
			}
			return KindInvalid, KindInvalid
		}
		if tag == NativeTypeTagByValArray {
			return classifyByValArray(t, meta, policy)
		}
		return classifyArray(t, meta, policy)

	default:
		return KindInvalid, KindInvalid
	}
}

func classifyBool(tag NativeTypeTag) (MarshallerKind, ElementKind) {
	switch tag {
	case NativeTypeTagNone, NativeTypeTagBool:
		return KindBool, KindInvalid
	case NativeTypeTagI1, NativeTypeTagU1:
		return KindCBool, KindInvalid
	default:
		return KindInvalid, KindInvalid
	}
}

func classifyChar(tag NativeTypeTag, policy MethodPolicy) (MarshallerKind, ElementKind) {
	switch tag {
	case NativeTypeTagI1, NativeTypeTagU1:
		return KindAnsiChar, KindInvalid
	case NativeTypeTagI2, NativeTypeTagU2:
		return KindUnicodeChar, KindInvalid
	case NativeTypeTagNone:
		if policy.CharSet() == CharSetAnsi {
			return KindAnsiChar, KindInvalid
		}
		return KindUnicodeChar, KindInvalid
	default:
		return KindInvalid, KindInvalid
	}
}

func classifyIntegerWidth(t typesystem.Type, tag NativeTypeTag) (MarshallerKind, ElementKind) {
	if tag == NativeTypeTagNone {
		return KindBlittableValue, KindInvalid
	}
	signed := t.Kind() == typesystem.KindInt
	width := t.BitSize()
	match := false
	switch tag {
	case NativeTypeTagI1:
		match = signed && width == 8
	case NativeTypeTagU1:
		match = !signed && width == 8
	case NativeTypeTagI2:
		match = signed && width == 16
	case NativeTypeTagU2:
		match = !signed && width == 16
	case NativeTypeTagI4:
		match = signed && width == 32
	case NativeTypeTagU4:
		match = !signed && width == 32
	case NativeTypeTagI8:
		match = signed && width == 64
	case NativeTypeTagU8:
		match = !signed && width == 64
	}
	if match {
		return KindBlittableValue, KindInvalid
	}
	return KindInvalid, KindInvalid
}

func classifyFloat(t typesystem.Type, tag NativeTypeTag) (MarshallerKind, ElementKind) {
	switch tag {
	case NativeTypeTagNone:
		return KindBlittableValue, KindInvalid
	case NativeTypeTagR4:
		if t.BitSize() == 32 {
			return KindBlittableValue, KindInvalid
		}
	case NativeTypeTagR8:
		if t.BitSize() == 64 {
			return KindBlittableValue, KindInvalid
		}
	}
	return KindInvalid, KindInvalid
}

// classifyStringLike implements the shared string/string-builder rule
// (§4.1: "string-builder -> Ansi/Unicode StringBuilder by the same
// rules as string").
func classifyStringLike(tag NativeTypeTag, policy MethodPolicy, builder bool) (MarshallerKind, ElementKind) {
	switch tag {
	case NativeTypeTagLPWStr:
		if builder {
			return KindUnicodeStringBuilder, KindInvalid
		}
		return KindUnicodeString, KindInvalid
	case NativeTypeTagLPStr:
		if builder {
			return KindAnsiStringBuilder, KindInvalid
		}
		return KindAnsiString, KindInvalid
	case NativeTypeTagNone, NativeTypeTagLPTStr:
		ansi := policy.CharSet() == CharSetAnsi
		if ansi && builder {
			return KindAnsiStringBuilder, KindInvalid
		}
		if ansi {
			return KindAnsiString, KindInvalid
		}
		if builder {
			return KindUnicodeStringBuilder, KindInvalid
		}
		return KindUnicodeString, KindInvalid
	default:
		return KindInvalid, KindInvalid
	}
}

func classifyObject(tag NativeTypeTag) (MarshallerKind, ElementKind) {
	switch tag {
	case NativeTypeTagNone:
		return KindVariant, KindInvalid
	case NativeTypeTagIUnknown, NativeTypeTagInterface:
		return KindObject, KindInvalid
	default:
		return KindInvalid, KindInvalid
	}
}

// classifyArray implements the Array arm of §4.1: classify the
// element recursively as an Element-role value, then promote the
// container kind by the element's kind.
func classifyArray(t typesystem.Type, meta ParameterMetadata, policy MethodPolicy) (MarshallerKind, ElementKind) {
	elemMeta := ParameterMetadata{Role: RoleElement}
	elemKind, _ := Classify(t.Elem(), elemMeta, policy)
	if elemKind == KindInvalid {
		return KindInvalid, KindInvalid
	}
	switch elemKind {
	case KindAnsiChar:
		return KindAnsiCharArray, elemKind
	case KindUnicodeChar, KindEnum, KindBlittableValue:
		return KindBlittableArray, elemKind
	default:
		return KindArray, elemKind
	}
}

// classifyByValArray mirrors classifyArray for the fixed-length
// ByValArray shape (§4.1).
func classifyByValArray(t typesystem.Type, meta ParameterMetadata, policy MethodPolicy) (MarshallerKind, ElementKind) {
	elemMeta := ParameterMetadata{Role: RoleElement}
	elemKind, _ := Classify(t.Elem(), elemMeta, policy)
	if elemKind == KindInvalid {
		return KindInvalid, KindInvalid
	}
	if elemKind == KindAnsiChar {
		return KindByValAnsiCharArray, elemKind
	}
	return KindByValArray, elemKind
}

// ResolveInOut implements the effective in/out resolution that follows
// classification (§4.1, the five numbered rules after the decision
// tree). isByRef is the managed parameter's by-reference-ness; the
// string-builder default is read from kind itself
// (KindAnsiStringBuilder/KindUnicodeStringBuilder).
func ResolveInOut(kind MarshallerKind, isByRef bool, meta ParameterMetadata) (in, out bool) {
	switch {
	case isByRef:
		in, out = true, true
	case kind == KindAnsiStringBuilder || kind == KindUnicodeStringBuilder:
		in, out = true, true
	default:
		in, out = true, false
	}
	if meta.ExplicitInOut {
		in, out = meta.In, meta.Out
	}

	isValueOrString := !isByRef && isValueOrStringKind(kind)
	if isValueOrString {
		out = false
	}
	if !isByRef && (kind == KindAnsiString || kind == KindUnicodeString) && in {
		out = false
	}
	return in, out
}

// isValueOrStringKind reports whether kind is one of the by-value
// "value type or string" kinds rule 4 of §4.1's in/out resolution
// silently drops `out` for.
func isValueOrStringKind(kind MarshallerKind) bool {
	switch kind {
	case KindBlittableValue, KindEnum, KindBool, KindCBool, KindDecimal, KindGuid,
		KindOleDateTime, KindStruct, KindBlittableStruct, KindBlittableStructPtr,
		KindAnsiString, KindUnicodeString:
		return true
	default:
		return false
	}
}

// blittable reports whether t's managed and native bit-layouts are
// identical (GLOSSARY: "Blittable"), delegating to the TypeSystem's
// own predicate.
func blittable(t typesystem.Type) bool { return t.Blittable() }
