// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import (
	"reflect"
	"testing"

	"github.com/pk910/pinvoke-marshal/typesystem"
)

func reflectOf(v any) typesystem.Type {
	return typesystem.NewReflectType(reflect.TypeOf(v), false)
}

func reflectByRefOf(v any, byRef bool) typesystem.Type {
	return typesystem.NewReflectType(reflect.TypeOf(v), byRef)
}

func TestClassifyBlittableScalars(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	tests := []struct {
		name string
		v    any
		want MarshallerKind
	}{
		{"int32", int32(0), KindBlittableValue},
		{"uint64", uint64(0), KindBlittableValue},
		{"float32", float32(0), KindBlittableValue},
		{"float64", float64(0), KindBlittableValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := Classify(reflectOf(tt.v), ParameterMetadata{Role: RoleArgument}, policy)
			if kind != tt.want {
				t.Fatalf("Classify(%s) = %v, want %v", tt.name, kind, tt.want)
			}
		})
	}
}

func TestClassifyBoolWithMarshalAs(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{
		Role:         RoleArgument,
		HasMarshalAs: true,
		MarshalAs:    MarshalAsDescriptor{Tag: NativeTypeTagI1},
	}
	kind, _ := Classify(reflectOf(true), meta, policy)
	if kind != KindCBool {
		t.Fatalf("Classify(bool, I1) = %v, want KindCBool", kind)
	}

	kind, _ = Classify(reflectOf(true), ParameterMetadata{Role: RoleArgument}, policy)
	if kind != KindBool {
		t.Fatalf("Classify(bool, none) = %v, want KindBool", kind)
	}
}

func TestClassifyStringByCharSet(t *testing.T) {
	ansi := NewPolicy(CharSetAnsi)
	unicode := NewPolicy(CharSetUnicode)

	kind, _ := Classify(reflectOf(""), ParameterMetadata{Role: RoleArgument}, ansi)
	if kind != KindAnsiString {
		t.Fatalf("ansi default = %v, want KindAnsiString", kind)
	}

	kind, _ = Classify(reflectOf(""), ParameterMetadata{Role: RoleArgument}, unicode)
	if kind != KindUnicodeString {
		t.Fatalf("unicode default = %v, want KindUnicodeString", kind)
	}

	explicit := ParameterMetadata{
		Role: RoleArgument, HasMarshalAs: true,
		MarshalAs: MarshalAsDescriptor{Tag: NativeTypeTagLPWStr},
	}
	kind, _ = Classify(reflectOf(""), explicit, ansi)
	if kind != KindUnicodeString {
		t.Fatalf("explicit LPWStr over ansi policy = %v, want KindUnicodeString", kind)
	}
}

func TestClassifyIntegerWidthMismatchIsInvalid(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{
		Role: RoleArgument, HasMarshalAs: true,
		MarshalAs: MarshalAsDescriptor{Tag: NativeTypeTagI8},
	}
	kind, _ := Classify(reflectOf(int32(0)), meta, policy)
	if kind != KindInvalid {
		t.Fatalf("32-bit int tagged I8 = %v, want KindInvalid", kind)
	}
}

func TestClassifyArrayPromotesByElementKind(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	kind, elem := Classify(reflectOf([]int32{}), ParameterMetadata{Role: RoleArgument}, policy)
	if kind != KindBlittableArray || elem != KindBlittableValue {
		t.Fatalf("[]int32 classified as (%v, %v), want (BlittableArray, BlittableValue)", kind, elem)
	}

	kind, elem = Classify(reflectOf([]string{}), ParameterMetadata{Role: RoleArgument}, policy)
	if kind != KindArray || elem != KindAnsiString {
		t.Fatalf("[]string classified as (%v, %v), want (Array, AnsiString)", kind, elem)
	}
}

func TestClassifyByValArrayRequiresTag(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	meta := ParameterMetadata{
		Role: RoleField, HasMarshalAs: true,
		MarshalAs: MarshalAsDescriptor{Tag: NativeTypeTagByValArray, HasSizeConst: true, SizeConst: 4},
	}
	kind, elem := Classify(reflectOf([4]int32{}), meta, policy)
	if kind != KindByValArray || elem != KindBlittableValue {
		t.Fatalf("ByValArray field = (%v, %v), want (ByValArray, BlittableValue)", kind, elem)
	}

	kind, _ = Classify(reflectOf([4]int32{}), ParameterMetadata{Role: RoleField}, policy)
	if kind != KindInvalid {
		t.Fatalf("field-role array with no ByValArray tag = %v, want KindInvalid", kind)
	}
}

func TestClassifyBlittableStruct(t *testing.T) {
	policy := NewPolicy(CharSetAnsi)
	kind, _ := Classify(reflectOf(struct{ X int32 }{}), ParameterMetadata{Role: RoleArgument}, policy)
	if kind != KindBlittableStruct {
		t.Fatalf("blittable struct = %v, want KindBlittableStruct", kind)
	}
}

func TestResolveInOutDefaults(t *testing.T) {
	in, out := ResolveInOut(KindBlittableValue, false, ParameterMetadata{})
	if !in || out {
		t.Fatalf("value kind default = (%v,%v), want (true,false)", in, out)
	}

	in, out = ResolveInOut(KindBlittableValue, true, ParameterMetadata{})
	if !in || !out {
		t.Fatalf("by-ref default = (%v,%v), want (true,true)", in, out)
	}

	in, out = ResolveInOut(KindUnicodeStringBuilder, false, ParameterMetadata{})
	if !in || !out {
		t.Fatalf("string builder default = (%v,%v), want (true,true)", in, out)
	}
}

func TestResolveInOutExplicitOverridesDefault(t *testing.T) {
	meta := ParameterMetadata{ExplicitInOut: true, In: false, Out: true}
	in, out := ResolveInOut(KindArray, false, meta)
	if in || !out {
		t.Fatalf("explicit out-only = (%v,%v), want (false,true)", in, out)
	}
}

func TestResolveInOutDropsOutForValueKinds(t *testing.T) {
	meta := ParameterMetadata{ExplicitInOut: true, In: true, Out: true}
	in, out := ResolveInOut(KindBlittableValue, false, meta)
	if !in || out {
		t.Fatalf("value kind with explicit out still dropped: got (%v,%v), want (true,false)", in, out)
	}
}
