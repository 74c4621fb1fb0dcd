// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

// Command pinvokegen loads a Go package with golang.org/x/tools/go/packages,
// finds every struct type whose name ends in "Signature" (each field
// standing in for one managed parameter via internal/static's tag
// convention), classifies and emits a Forward marshalling stub for it,
// and prints the recorded instruction stream. It is the static mirror
// of the reflection-driven path: the stand-in for "the enclosing
// compiler pipeline" spec.md §1 declares out of scope, present only so
// this module has a real, runnable front end to exercise against.
package main

import (
	"flag"
	"fmt"
	"go/types"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/pk910/pinvoke-marshal"
	"github.com/pk910/pinvoke-marshal/ilstream"
	"github.com/pk910/pinvoke-marshal/internal/static"
)

func main() {
	pattern := flag.String("pkg", ".", "Go package pattern to load")
	verbose := flag.Bool("v", false, "enable verbose tracing")
	flag.Parse()

	if err := run(*pattern, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "pinvokegen:", err)
		os.Exit(1)
	}
}

func run(pattern string, verbose bool) error {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return fmt.Errorf("loading package %q: %w", pattern, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("errors loading package %q", pattern)
	}

	var opts []pinvoke.GeneratorOption
	if verbose {
		opts = append(opts, pinvoke.WithVerbose())
	}
	gen := pinvoke.NewGenerator(opts...)

	for _, pkg := range pkgs {
		names := signatureTypeNames(pkg.Types)
		for _, name := range names {
			if err := generateOne(gen, pkg.Types, name); err != nil {
				fmt.Fprintf(os.Stderr, "pinvokegen: %s.%s: %v\n", pkg.PkgPath, name, err)
				continue
			}
		}
	}
	return nil
}

func signatureTypeNames(pkg *types.Package) []string {
	var names []string
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if strings.HasSuffix(name, "Signature") {
			names = append(names, name)
		}
	}
	return names
}

func generateOne(gen *pinvoke.Generator, pkg *types.Package, name string) error {
	named, err := static.FindSignatureStruct(pkg, name)
	if err != nil {
		return err
	}
	sig, err := static.ExtractSignature(named)
	if err != nil {
		return err
	}

	rec := ilstream.NewRecorder(nil)
	stub, err := gen.Generate(sig, pinvoke.DirectionForward, rec)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s (%d marshaller(s)) ===\n", name, len(stub.Marshallers))
	fmt.Print(rec.String())
	return nil
}
