// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package static

import (
	"reflect"
	"testing"

	"github.com/pk910/pinvoke-marshal"
)

func TestParseTagInOutByRef(t *testing.T) {
	d, err := ParseTag(reflect.StructTag(`pinvoke:"in,out,byref"`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if !d.ExplicitInOut || !d.In || !d.Out || !d.ByRef {
		t.Fatalf("got %+v, want in=out=byref=true", d)
	}
}

func TestParseTagNoTagsLeavesExplicitInOutFalse(t *testing.T) {
	d, err := ParseTag(reflect.StructTag(``))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if d.ExplicitInOut || d.In || d.Out || d.ByRef {
		t.Fatalf("got %+v, want all zero", d)
	}
}

func TestParseTagRejectsUnknownPinvokeToken(t *testing.T) {
	if _, err := ParseTag(reflect.StructTag(`pinvoke:"sideways"`)); err == nil {
		t.Fatal("expected an error for an unrecognized pinvoke tag token")
	}
}

func TestParseTagMarshalAs(t *testing.T) {
	d, err := ParseTag(reflect.StructTag(`marshalas:"LPWStr"`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if !d.HasMarshalAs || d.MarshalAs.Tag != pinvoke.NativeTypeTagLPWStr {
		t.Fatalf("got %+v, want LPWStr", d)
	}
}

func TestParseTagRejectsUnknownMarshalAs(t *testing.T) {
	if _, err := ParseTag(reflect.StructTag(`marshalas:"Bogus"`)); err == nil {
		t.Fatal("expected an error for an unrecognized marshalas tag")
	}
}

func TestParseTagSizeConst(t *testing.T) {
	d, err := ParseTag(reflect.StructTag(`sizeconst:"4"`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if !d.MarshalAs.HasSizeConst || d.MarshalAs.SizeConst != 4 {
		t.Fatalf("got %+v, want HasSizeConst=true SizeConst=4", d)
	}
}

func TestParseTagSizeConstRejectsNonInteger(t *testing.T) {
	if _, err := ParseTag(reflect.StructTag(`sizeconst:"four"`)); err == nil {
		t.Fatal("expected an error for a non-integer sizeconst tag")
	}
}

func TestParseTagSizeParam(t *testing.T) {
	d, err := ParseTag(reflect.StructTag(`sizeparam:"1"`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if !d.MarshalAs.HasSizeParamIndex || d.MarshalAs.ParamIndex != 1 {
		t.Fatalf("got %+v, want HasSizeParamIndex=true ParamIndex=1", d)
	}
}

func TestParseTagSizeParamRejectsNonInteger(t *testing.T) {
	if _, err := ParseTag(reflect.StructTag(`sizeparam:"one"`)); err == nil {
		t.Fatal("expected an error for a non-integer sizeparam tag")
	}
}
