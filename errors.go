// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

import "errors"

// Error taxonomy (§7): one sentinel per failure mode, wrapped with
// fmt.Errorf/%w at call sites rather than returned bare, the way
// sszutils/error.go enumerates its ErrUnsupportedType/ErrInvalidType
// family instead of a single generic error type.
var (
	// ErrUnsupportedSignature is returned when the classifier produces
	// KindInvalid, or when a kind has no registered emission hooks
	// (§12.1: classified-but-unemitted kinds).
	ErrUnsupportedSignature = errors.New("pinvoke: unsupported signature")

	// ErrInvalidSizeParamIndex is returned when a MarshalAsDescriptor's
	// SizeParamIndex is out of range for the enclosing method's
	// parameter list.
	ErrInvalidSizeParamIndex = errors.New("pinvoke: invalid size param index")

	// ErrSizeParamNotIntegral is returned when the parameter referenced
	// by SizeParamIndex is not an integral type (§4.5).
	ErrSizeParamNotIntegral = errors.New("pinvoke: size param index does not reference an integral parameter")

	// ErrArrayElementKind is returned when an Array/ByValArray's element
	// classifies to KindInvalid (§3: "elementKind != Invalid, otherwise
	// the parent is Invalid").
	ErrArrayElementKind = errors.New("pinvoke: array element kind is invalid")

	// ErrInternalInvariant is returned for conditions the classifier and
	// orchestrator treat as asserted preconditions rather than
	// reachable user errors (§7: "must be unreachable in a correct
	// implementation") — e.g. a store attempted against a by-reference
	// Home, or combined [In,Out] on a SafeHandle (§12.2).
	ErrInternalInvariant = errors.New("pinvoke: internal invariant violation")
)
