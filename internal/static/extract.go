// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package static

import (
	"fmt"
	"go/types"
	"reflect"

	"github.com/pk910/pinvoke-marshal"
	"github.com/pk910/pinvoke-marshal/typesystem"
)

// ExtractSignature builds a pinvoke.MethodSignature from a Go struct
// type whose fields stand in for one method's parameter list, the
// static-analysis mirror of a reflection-based caller building the
// same structure from a real method's reflect.Type at runtime. By
// convention the field named "Return" (if present) supplies the
// return value; every other field is a parameter, in declaration
// order. Grounded on codegen/parser.go's buildTypeDescriptor, which
// walks a *types.Struct the same way to build per-field descriptors.
func ExtractSignature(named *types.Named) (pinvoke.MethodSignature, error) {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return pinvoke.MethodSignature{}, fmt.Errorf("static: %s is not a struct type", named.Obj().Name())
	}

	var sig pinvoke.MethodSignature
	haveReturn := false

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		directives, err := ParseTag(reflect.StructTag(st.Tag(i)))
		if err != nil {
			return pinvoke.MethodSignature{}, fmt.Errorf("static: field %s: %w", field.Name(), err)
		}

		t := typesystem.NewStaticType(field.Type(), directives.ByRef)
		meta := pinvoke.ParameterMetadata{
			Type:          t,
			MarshalAs:     directives.MarshalAs,
			HasMarshalAs:  directives.HasMarshalAs,
			Role:          pinvoke.RoleArgument,
			In:            directives.In,
			Out:           directives.Out,
			ExplicitInOut: directives.ExplicitInOut,
		}

		if field.Name() == "Return" {
			meta.IsReturnValue = true
			sig.ReturnMeta = meta
			haveReturn = true
			continue
		}
		sig.Parameters = append(sig.Parameters, meta)
	}

	if !haveReturn {
		return pinvoke.MethodSignature{}, fmt.Errorf("static: %s has no Return field", named.Obj().Name())
	}
	return sig, nil
}

// FindSignatureStruct looks up name within pkg's scope and returns its
// *types.Named, for callers that only have a package and a type name
// string (as cmd/pinvokegen does after go/packages.Load).
func FindSignatureStruct(pkg *types.Package, name string) (*types.Named, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("static: type %s not found in package %s", name, pkg.Path())
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("static: %s is not a type", name)
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("static: %s is not a named type", name)
	}
	return named, nil
}
