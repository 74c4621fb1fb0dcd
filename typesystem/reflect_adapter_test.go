// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package typesystem

import (
	"reflect"
	"strings"
	"testing"
)

func TestReflectTypeKindMapping(t *testing.T) {
	tests := []struct {
		v    any
		want ValueKind
	}{
		{true, KindBool},
		{int32(0), KindInt},
		{uint64(0), KindUint},
		{uintptr(0), KindUintPtr},
		{float64(0), KindFloat},
		{"", KindString},
		{[]int32{}, KindArray},
		{[4]int32{}, KindArray},
		{struct{}{}, KindStruct},
	}
	for _, tt := range tests {
		got := NewReflectType(reflect.TypeOf(tt.v), false).Kind()
		if got != tt.want {
			t.Errorf("Kind(%T) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestReflectTypeBitSize(t *testing.T) {
	if got := NewReflectType(reflect.TypeOf(int32(0)), false).BitSize(); got != 32 {
		t.Fatalf("BitSize(int32) = %d, want 32", got)
	}
	if got := NewReflectType(reflect.TypeOf(uint64(0)), false).BitSize(); got != 64 {
		t.Fatalf("BitSize(uint64) = %d, want 64", got)
	}
}

func TestReflectTypeElemForArrayAndPointer(t *testing.T) {
	arr := NewReflectType(reflect.TypeOf([]int32{}), false)
	if arr.Elem().Kind() != KindInt {
		t.Fatalf("Elem() of []int32 = %v, want KindInt", arr.Elem().Kind())
	}
	ptr := NewReflectType(reflect.TypeOf((*int32)(nil)), false)
	if ptr.Elem().Kind() != KindInt {
		t.Fatalf("Elem() of *int32 = %v, want KindInt", ptr.Elem().Kind())
	}
	scalar := NewReflectType(reflect.TypeOf(int32(0)), false)
	if scalar.Elem() != nil {
		t.Fatal("Elem() of a non-pointer, non-array scalar should be nil")
	}
}

func TestReflectTypeByRefElemUnwraps(t *testing.T) {
	byRef := NewReflectType(reflect.TypeOf(int32(0)), true)
	if !byRef.IsByRef() {
		t.Fatal("expected IsByRef() to report true")
	}
	if byRef.Elem().Kind() != KindInt || byRef.Elem().IsByRef() {
		t.Fatalf("Elem() of a by-ref int32 = %+v, want a plain (non-by-ref) KindInt", byRef.Elem())
	}
}

func TestReflectTypeArrayLenOnlyForFixedArrays(t *testing.T) {
	fixed := NewReflectType(reflect.TypeOf([4]int32{}), false)
	if fixed.ArrayLen() != 4 {
		t.Fatalf("ArrayLen([4]int32) = %d, want 4", fixed.ArrayLen())
	}
	slice := NewReflectType(reflect.TypeOf([]int32{}), false)
	if slice.ArrayLen() != 0 {
		t.Fatalf("ArrayLen([]int32) = %d, want 0", slice.ArrayLen())
	}
}

func TestReflectTypeBlittable(t *testing.T) {
	type allScalars struct {
		A int32
		B uint64
	}
	type withString struct {
		S string
	}
	if !NewReflectType(reflect.TypeOf(allScalars{}), false).Blittable() {
		t.Fatal("a struct of all-scalar fields should be blittable")
	}
	if NewReflectType(reflect.TypeOf(withString{}), false).Blittable() {
		t.Fatal("a struct containing a string field should not be blittable")
	}
	if !NewReflectType(reflect.TypeOf([4]int32{}), false).Blittable() {
		t.Fatal("a fixed array of a blittable element should be blittable")
	}
}

func TestReflectTypeEqual(t *testing.T) {
	a := NewReflectType(reflect.TypeOf(int32(0)), false)
	b := NewReflectType(reflect.TypeOf(int32(0)), false)
	c := NewReflectType(reflect.TypeOf(int32(0)), true)
	if !a.Equal(b) {
		t.Fatal("two wrappers of the same reflect.Type and byRef should be Equal")
	}
	if a.Equal(c) {
		t.Fatal("byRef mismatch should make Equal false")
	}
}

func TestUnderlyingReturnsWrappedReflectType(t *testing.T) {
	rt := reflect.TypeOf(int32(0))
	wrapped := NewReflectType(rt, false)
	if Underlying(wrapped) != rt {
		t.Fatal("Underlying should return the original reflect.Type")
	}
}

func TestDefaultRecognizerMatchesByQualifiedName(t *testing.T) {
	sb := NewReflectType(reflect.TypeOf(strings.Builder{}), false)
	if !DefaultRecognizer.IsStringBuilder(sb) {
		t.Fatal("strings.Builder should be recognized as a string builder")
	}
	if DefaultRecognizer.IsSafeHandle(sb) {
		t.Fatal("strings.Builder must not be recognized as a safe handle")
	}

	notArray := NewReflectType(reflect.TypeOf(int32(0)), false)
	if DefaultRecognizer.IsSystemArray(notArray) {
		t.Fatal("a scalar must not be recognized as a system array")
	}
	arr := NewReflectType(reflect.TypeOf([]int32{}), false)
	if !DefaultRecognizer.IsSystemArray(arr) {
		t.Fatal("a slice should be recognized as a system array")
	}
}
