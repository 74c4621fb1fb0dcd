// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "github.com/pk910/pinvoke-marshal/ilstream"

// Bundle is the Code-Stream Bundle (§3, §5): five ordered, append-only
// instruction streams shared by every marshaller in one stub, plus the
// Emitter each marshaller writes into. The final concatenation order
// is fixed (§5): marshalling → call-site-setup → [native call] →
// unmarshalling → return-value, with cleanup folded into unmarshalling
// or return-value depending on whether the parameter is the return.
//
// Each "stream" here is simply a boundary marker pair around a shared
// ilstream.Emitter rather than a second buffer: marshallers append
// directly to the bundle's single Emitter, and Bundle tracks where
// each named stream began so §8's "streams are non-empty where
// required" property can be checked after the fact.
type Bundle struct {
	Emitter ilstream.Emitter

	marshallingStart     int
	callSiteStart        int
	unmarshallingStart   int
	returnValueStart     int
	cleanupStart         int
}

// streamMark is an opaque cursor into the bundle's underlying stream,
// used to bound a named section for counting/inspection.
type streamMark = int

// NewBundle wraps an Emitter as a fresh Bundle positioned at the start
// of the marshalling stream.
func NewBundle(e ilstream.Emitter) *Bundle {
	return &Bundle{Emitter: e}
}

// lengther is satisfied by ilstream.Recorder; other Emitter
// implementations need not support it, in which case stream-length
// invariant checks (§8) are simply unavailable for them.
type lengther interface {
	Len() int
}

func (b *Bundle) mark() streamMark {
	if l, ok := b.Emitter.(lengther); ok {
		return l.Len()
	}
	return -1
}

// BeginMarshalling marks the start of the marshalling stream section.
func (b *Bundle) BeginMarshalling() { b.marshallingStart = b.mark() }

// BeginCallSite marks the start of the call-site-setup stream section.
func (b *Bundle) BeginCallSite() { b.callSiteStart = b.mark() }

// BeginUnmarshalling marks the start of the unmarshalling stream
// section (which includes cleanup for non-return parameters, §5).
func (b *Bundle) BeginUnmarshalling() { b.unmarshallingStart = b.mark() }

// BeginReturnValue marks the start of the return-value stream section.
func (b *Bundle) BeginReturnValue() { b.returnValueStart = b.mark() }

// BeginCleanup marks the start of the cleanup sub-section, folded into
// whichever of unmarshalling/return-value is currently open.
func (b *Bundle) BeginCleanup() { b.cleanupStart = b.mark() }

// SectionLen reports how many instructions were appended since mark,
// or -1 if the underlying Emitter doesn't support length inspection.
func (b *Bundle) SectionLen(mark streamMark) int {
	cur := b.mark()
	if mark < 0 || cur < 0 {
		return -1
	}
	return cur - mark
}

// MarshallingLen, CallSiteLen, UnmarshallingLen, ReturnValueLen, and
// CleanupLen report the instruction counts of their respective
// sections since the last matching Begin* call.
func (b *Bundle) MarshallingLen() int   { return b.SectionLen(b.marshallingStart) }
func (b *Bundle) CallSiteLen() int      { return b.SectionLen(b.callSiteStart) }
func (b *Bundle) UnmarshallingLen() int { return b.SectionLen(b.unmarshallingStart) }
func (b *Bundle) ReturnValueLen() int   { return b.SectionLen(b.returnValueStart) }
func (b *Bundle) CleanupLen() int       { return b.SectionLen(b.cleanupStart) }
