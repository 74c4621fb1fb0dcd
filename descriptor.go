// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

// NativeTypeTag is the managed side's declared preference for a
// parameter or field's native representation (spec.md §2, the
// "MarshalAs" concept): UnmanagedType in the originating platform, an
// attribute on a signature that the classifier must reconcile against
// the managed type's own shape.
type NativeTypeTag uint8

const (
	NativeTypeTagNone NativeTypeTag = iota
	NativeTypeTagBool
	NativeTypeTagI1
	NativeTypeTagU1
	NativeTypeTagI2
	NativeTypeTagU2
	NativeTypeTagI4
	NativeTypeTagU4
	NativeTypeTagI8
	NativeTypeTagU8
	NativeTypeTagR4
	NativeTypeTagR8
	NativeTypeTagLPStr
	NativeTypeTagLPWStr
	NativeTypeTagLPTStr
	NativeTypeTagLPUTF8Str
	NativeTypeTagArray
	NativeTypeTagByValArray
	NativeTypeTagByValTStr
	NativeTypeTagStruct
	NativeTypeTagLPStruct
	NativeTypeTagIUnknown
	NativeTypeTagInterface
	NativeTypeTagFunctionPtr
	NativeTypeTagSysInt
	NativeTypeTagSysUInt
	NativeTypeTagVariant
)

// MarshalAsDescriptor carries the parsed contents of a MarshalAs
// annotation (spec.md §2). SizeConst and ParamIndex are the two sizing
// inputs EmitElementCount (elementcount.go, spec.md §4.5) combines
// when the array marshallers size a Reverse-direction array.
type MarshalAsDescriptor struct {
	Tag        NativeTypeTag
	SizeConst  int  // valid when HasSizeConst
	ParamIndex int  // valid when HasSizeParamIndex; index into the enclosing method's parameter list

	HasSizeConst      bool
	HasSizeParamIndex bool
}

// SizeConstOrDefault mirrors the corert getter of the same shape: zero
// when unset, rather than forcing callers to branch on HasSizeConst
// themselves for the common "0 means absent" reading.
func (d MarshalAsDescriptor) SizeConstOrDefault() int {
	if !d.HasSizeConst {
		return 0
	}
	return d.SizeConst
}

// ParameterMetadata describes one managed parameter or return value as
// the classifier sees it: its declared type, any MarshalAs annotation,
// and the structural facts (by-ref-ness, role) that narrow the
// classifier's decision tree (spec.md §4.1).
type ParameterMetadata struct {
	Type       typesystem.Type
	MarshalAs  MarshalAsDescriptor
	HasMarshalAs bool

	Role MarshallerRole

	// IsReturnValue distinguishes the return slot from argument index 0;
	// a return value is never ByRef and never RoleArgument's "In/Out"
	// question applies to it.
	IsReturnValue bool

	// In/Out mirror the managed [In]/[Out] attributes as explicitly
	// written on the signature; they are only consulted by
	// ResolveInOut when ExplicitInOut is true. When false, ResolveInOut
	// computes the defaults from kind and by-ref-ness alone (§4.1).
	In            bool
	Out           bool
	ExplicitInOut bool
}

// EffectiveMarshalAs returns the descriptor's Tag, or
// NativeTypeTagNone if no MarshalAs annotation was present — the
// classifier treats an absent annotation as "infer from the managed
// type" rather than as an explicit tag.
func (p ParameterMetadata) EffectiveMarshalAs() NativeTypeTag {
	if !p.HasMarshalAs {
		return NativeTypeTagNone
	}
	return p.MarshalAs.Tag
}
