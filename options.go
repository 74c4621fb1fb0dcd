// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

// GeneratorOption configures a Generator at construction time via the
// functional-options pattern.
type GeneratorOption func(*GeneratorOptions)

// GeneratorOptions holds the knobs a GeneratorOption mutates.
type GeneratorOptions struct {
	Verbose bool
	LogCb   func(format string, args ...any)
	Policy  MethodPolicy
}

// WithVerbose turns on tracing of each Generate call (start, failure,
// completion with the marshaller count) to stdout (or LogCb, if also
// set). Classifier decisions and individual emission steps are not
// traced.
func WithVerbose() GeneratorOption {
	return func(o *GeneratorOptions) {
		o.Verbose = true
	}
}

// WithLogCb redirects verbose tracing to a caller-supplied sink
// instead of stdout.
func WithLogCb(logCb func(format string, args ...any)) GeneratorOption {
	return func(o *GeneratorOptions) {
		o.LogCb = logCb
	}
}

// WithPolicy overrides the default reflection-backed MethodPolicy
// (CharSetAnsi, typesystem.DefaultRecognizer) with a caller-supplied
// one — e.g. config.PolicyProfile's adapter.
func WithPolicy(p MethodPolicy) GeneratorOption {
	return func(o *GeneratorOptions) {
		o.Policy = p
	}
}
