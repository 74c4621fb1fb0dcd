// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

var globalGenerator *Generator

// GetGlobalGenerator returns a package-level default Generator, lazily
// constructed on first use so callers that never need a custom policy
// can skip NewGenerator entirely.
func GetGlobalGenerator() *Generator {
	if globalGenerator == nil {
		globalGenerator = NewGenerator()
	}
	return globalGenerator
}

// SetGlobalPolicy replaces the global Generator wholesale with one
// configured against policy.
func SetGlobalPolicy(policy MethodPolicy) {
	globalGenerator = NewGenerator(WithPolicy(policy))
}
