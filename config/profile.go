// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Package config loads a YAML-described interop policy profile, the
// way spectests/init.go decodes a preset YAML file into a typed specs
// struct with gopkg.in/yaml.v3. A PolicyProfile supplies
// pinvoke.MethodPolicy's well-known-type recognizers by qualified
// type name instead of a hard-coded predicate, so a host can target a
// different runtime/ABI profile (different SafeHandle-derived base
// types, different default character sets) without a code change.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyProfile is the YAML schema for one named interop profile.
type PolicyProfile struct {
	Name string `yaml:"name"`

	// CharSet is one of "ansi", "unicode", "auto" (case-insensitive);
	// defaults to "ansi" if empty.
	CharSet string `yaml:"charset"`

	// WellKnownTypes maps a recognizer name (see the field* constants in
	// policy_profile.go) to the list of fully-qualified managed type
	// names that should be recognized as that well-known type.
	WellKnownTypes map[string][]string `yaml:"well_known_types"`
}

// LoadPolicyProfile reads and decodes a PolicyProfile from path.
func LoadPolicyProfile(path string) (*PolicyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading policy profile %q: %w", path, err)
	}
	var profile PolicyProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("config: decoding policy profile %q: %w", path, err)
	}
	return &profile, nil
}

// ParsePolicyProfile decodes a PolicyProfile directly from an
// in-memory YAML document, for callers (tests, embedded presets) that
// don't have a filesystem path to read from.
func ParsePolicyProfile(data []byte) (*PolicyProfile, error) {
	var profile PolicyProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("config: decoding policy profile: %w", err)
	}
	return &profile, nil
}
