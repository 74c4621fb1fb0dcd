// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/typesystem"

// CharSet is the method-level default character-set policy (§3).
type CharSet uint8

const (
	CharSetAnsi CharSet = iota
	CharSetUnicode
	CharSetAuto
)

// MethodPolicy supplies the classifier with the per-method knobs
// spec.md §3/§4.1 read outside the parameter's own type and descriptor:
// the declared character set and the well-known-type recognisers. The
// implementation is reflectPolicy (this file), built on a
// typesystem.WellKnownRecognizer: NewPolicy uses the hard-coded
// typesystem.DefaultRecognizer, and config.PolicyProfile.MethodPolicy
// supplies a recognizer that is data-driven from a loaded YAML document.
type MethodPolicy interface {
	CharSet() CharSet

	IsStringBuilder(t typesystem.Type) bool
	IsSafeHandle(t typesystem.Type) bool
	IsCriticalHandle(t typesystem.Type) bool
	IsSystemDecimal(t typesystem.Type) bool
	IsSystemGuid(t typesystem.Type) bool
	IsSystemDateTime(t typesystem.Type) bool
	IsSystemArray(t typesystem.Type) bool
	IsHandleRef(t typesystem.Type) bool
}

// reflectPolicy is the default MethodPolicy: a fixed CharSet plus
// typesystem.DefaultRecognizer's hard-coded (PkgPath, Name) matching,
// mirroring typecache.go's own hard-coded well-known-type switch.
type reflectPolicy struct {
	charSet    CharSet
	recognizer typesystem.WellKnownRecognizer
}

// NewPolicy builds a MethodPolicy from a CharSet, using the built-in
// recognizer. Use config.LoadPolicyProfile for a data-driven one.
func NewPolicy(charSet CharSet) MethodPolicy {
	return &reflectPolicy{charSet: charSet, recognizer: typesystem.DefaultRecognizer}
}

// NewPolicyWithRecognizer is the same as NewPolicy but lets a caller
// (notably config.PolicyProfile.MethodPolicy) supply its own recognizer.
func NewPolicyWithRecognizer(charSet CharSet, r typesystem.WellKnownRecognizer) MethodPolicy {
	return &reflectPolicy{charSet: charSet, recognizer: r}
}

func (p *reflectPolicy) CharSet() CharSet { return p.charSet }

func (p *reflectPolicy) IsStringBuilder(t typesystem.Type) bool  { return p.recognizer.IsStringBuilder(t) }
func (p *reflectPolicy) IsSafeHandle(t typesystem.Type) bool     { return p.recognizer.IsSafeHandle(t) }
func (p *reflectPolicy) IsCriticalHandle(t typesystem.Type) bool { return p.recognizer.IsCriticalHandle(t) }
func (p *reflectPolicy) IsSystemDecimal(t typesystem.Type) bool  { return p.recognizer.IsSystemDecimal(t) }
func (p *reflectPolicy) IsSystemGuid(t typesystem.Type) bool     { return p.recognizer.IsSystemGuid(t) }
func (p *reflectPolicy) IsSystemDateTime(t typesystem.Type) bool { return p.recognizer.IsSystemDateTime(t) }
func (p *reflectPolicy) IsSystemArray(t typesystem.Type) bool    { return p.recognizer.IsSystemArray(t) }
func (p *reflectPolicy) IsHandleRef(t typesystem.Type) bool      { return p.recognizer.IsHandleRef(t) }
