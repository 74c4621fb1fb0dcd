// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Package static is the struct-tag front end (§12.4): since no
// IL-bearing managed assembly is available to this module, a method's
// parameter metadata and MarshalAsDescriptor are instead expressed as
// struct tags (`pinvoke:"in,out"`, `marshalas:"LPWStr"`,
// `sizeparam:"1"`, `sizeconst:"4"`) on a placeholder Go struct whose
// fields stand in for a method's ordered parameter list. This is the
// concrete stand-in for "the enclosing compiler pipeline" spec.md §1
// declares out of scope — present only so the classifier and
// orchestrator have something real to run against, the way
// ssztags.go's struct-tag parsing stands in for a real SSZ schema
// compiler.
package static

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pk910/pinvoke-marshal"
)

var nativeTypeTagNames = map[string]pinvoke.NativeTypeTag{
	"Bool":      pinvoke.NativeTypeTagBool,
	"I1":        pinvoke.NativeTypeTagI1,
	"U1":        pinvoke.NativeTypeTagU1,
	"I2":        pinvoke.NativeTypeTagI2,
	"U2":        pinvoke.NativeTypeTagU2,
	"I4":        pinvoke.NativeTypeTagI4,
	"U4":        pinvoke.NativeTypeTagU4,
	"I8":        pinvoke.NativeTypeTagI8,
	"U8":        pinvoke.NativeTypeTagU8,
	"R4":        pinvoke.NativeTypeTagR4,
	"R8":        pinvoke.NativeTypeTagR8,
	"LPStr":     pinvoke.NativeTypeTagLPStr,
	"LPWStr":    pinvoke.NativeTypeTagLPWStr,
	"LPTStr":    pinvoke.NativeTypeTagLPTStr,
	"LPUTF8Str": pinvoke.NativeTypeTagLPUTF8Str,
	"Array":     pinvoke.NativeTypeTagArray,
	"ByValArray": pinvoke.NativeTypeTagByValArray,
	"ByValTStr": pinvoke.NativeTypeTagByValTStr,
	"Struct":    pinvoke.NativeTypeTagStruct,
	"LPStruct":  pinvoke.NativeTypeTagLPStruct,
	"IUnknown":  pinvoke.NativeTypeTagIUnknown,
	"Interface": pinvoke.NativeTypeTagInterface,
	"Func":      pinvoke.NativeTypeTagFunctionPtr,
	"SysInt":    pinvoke.NativeTypeTagSysInt,
	"SysUInt":   pinvoke.NativeTypeTagSysUInt,
	"Variant":   pinvoke.NativeTypeTagVariant,
}

// FieldDirectives is the parsed form of one field's pinvoke struct
// tags, ready to be merged into a pinvoke.ParameterMetadata once the
// field's type has been resolved by extract.go.
type FieldDirectives struct {
	ExplicitInOut bool
	In            bool
	Out           bool
	ByRef         bool

	MarshalAs    pinvoke.MarshalAsDescriptor
	HasMarshalAs bool
}

// ParseTag parses one struct field's `pinvoke`, `marshalas`,
// `sizeparam`, and `sizeconst` tags (the style of ssztags.go's
// getSszTypeTag/getSszSizeTag: tag.Lookup, strings.Split, switch on
// recognized tokens, fmt.Errorf on malformed input).
func ParseTag(tag reflect.StructTag) (FieldDirectives, error) {
	var d FieldDirectives

	if pinvokeTag, ok := tag.Lookup("pinvoke"); ok {
		d.ExplicitInOut = true
		for _, tok := range strings.Split(pinvokeTag, ",") {
			switch strings.TrimSpace(tok) {
			case "in":
				d.In = true
			case "out":
				d.Out = true
			case "byref":
				d.ByRef = true
			case "":
			default:
				return d, fmt.Errorf("static: unrecognized pinvoke tag token %q", tok)
			}
		}
	}

	if marshalAsTag, ok := tag.Lookup("marshalas"); ok {
		nativeTag, known := nativeTypeTagNames[marshalAsTag]
		if !known {
			return d, fmt.Errorf("static: unrecognized marshalas tag %q", marshalAsTag)
		}
		d.HasMarshalAs = true
		d.MarshalAs.Tag = nativeTag
	}

	if sizeConstTag, ok := tag.Lookup("sizeconst"); ok {
		v, err := strconv.Atoi(sizeConstTag)
		if err != nil {
			return d, fmt.Errorf("static: parsing sizeconst tag %q: %w", sizeConstTag, err)
		}
		d.HasMarshalAs = true
		d.MarshalAs.HasSizeConst = true
		d.MarshalAs.SizeConst = v
	}

	if sizeParamTag, ok := tag.Lookup("sizeparam"); ok {
		v, err := strconv.Atoi(sizeParamTag)
		if err != nil {
			return d, fmt.Errorf("static: parsing sizeparam tag %q: %w", sizeParamTag, err)
		}
		d.HasMarshalAs = true
		d.MarshalAs.HasSizeParamIndex = true
		d.MarshalAs.ParamIndex = v
	}

	return d, nil
}
