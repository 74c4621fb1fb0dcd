// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package config

import (
	"strings"

	"github.com/pk910/pinvoke-marshal"
	"github.com/pk910/pinvoke-marshal/typesystem"
)

// recognizer field names within PolicyProfile.WellKnownTypes.
const (
	fieldStringBuilder = "string_builder"
	fieldSafeHandle    = "safe_handle"
	fieldCriticalHandle = "critical_handle"
	fieldDecimal       = "decimal"
	fieldGuid          = "guid"
	fieldDateTime      = "date_time"
	fieldHandleRef     = "handle_ref"
)

// profileRecognizer implements typesystem.WellKnownRecognizer by
// matching a Type's qualified name (PkgPath + "." + Name) against the
// sets loaded from a PolicyProfile's YAML document, the data-driven
// counterpart to reflect_adapter.go's hard-coded reflectRecognizer.
type profileRecognizer struct {
	sets map[string]map[string]struct{}
}

func newProfileRecognizer(profile *PolicyProfile) *profileRecognizer {
	r := &profileRecognizer{sets: make(map[string]map[string]struct{})}
	for field, names := range profile.WellKnownTypes {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		r.sets[field] = set
	}
	return r
}

func qualifiedName(t typesystem.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func (r *profileRecognizer) matches(field string, t typesystem.Type) bool {
	set, ok := r.sets[field]
	if !ok {
		return false
	}
	_, found := set[qualifiedName(t)]
	return found
}

func (r *profileRecognizer) IsStringBuilder(t typesystem.Type) bool  { return r.matches(fieldStringBuilder, t) }
func (r *profileRecognizer) IsSafeHandle(t typesystem.Type) bool     { return r.matches(fieldSafeHandle, t) }
func (r *profileRecognizer) IsCriticalHandle(t typesystem.Type) bool { return r.matches(fieldCriticalHandle, t) }
func (r *profileRecognizer) IsSystemDecimal(t typesystem.Type) bool  { return r.matches(fieldDecimal, t) }
func (r *profileRecognizer) IsSystemGuid(t typesystem.Type) bool     { return r.matches(fieldGuid, t) }
func (r *profileRecognizer) IsSystemDateTime(t typesystem.Type) bool { return r.matches(fieldDateTime, t) }
func (r *profileRecognizer) IsSystemArray(t typesystem.Type) bool    { return t.Kind() == typesystem.KindArray }
func (r *profileRecognizer) IsHandleRef(t typesystem.Type) bool      { return r.matches(fieldHandleRef, t) }

// MethodPolicy adapts profile into a pinvoke.MethodPolicy, the
// file-backed alternative to pinvoke.NewPolicy's hard-coded default.
func (profile *PolicyProfile) MethodPolicy() pinvoke.MethodPolicy {
	charSet := pinvoke.CharSetAnsi
	switch strings.ToLower(profile.CharSet) {
	case "unicode":
		charSet = pinvoke.CharSetUnicode
	case "auto":
		charSet = pinvoke.CharSetAuto
	}
	return pinvoke.NewPolicyWithRecognizer(charSet, newProfileRecognizer(profile))
}
