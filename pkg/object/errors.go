// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
)

const (
	customResourceParts          = "4 parts: group, version, plural and name"
	monitoredResourceParts       = "2 parts: type and name"
	monitoredCustomResourceParts = "6 or 7 parts: group, version, plural, name, path, successful value and optional failed value"
)

// MalformedResourceSpecError is returned when a resource description
// does not split into the expected number of whitespace-separated tokens.
type MalformedResourceSpecError struct {
	Spec     string
	Expected string
}

func (e *MalformedResourceSpecError) Error() string {
	return fmt.Sprintf("resource description must contain %s, but [%s] is received", e.Expected, e.Spec)
}

// Is returns true if the specified error is equal to this error.
// Use errors.Is(error) to recursively check if an error wraps this error.
func (e *MalformedResourceSpecError) Is(err error) bool {
	if err == nil {
		return false
	}
	tErr, ok := err.(*MalformedResourceSpecError)
	if !ok {
		return false
	}
	return e.Spec == tErr.Spec && e.Expected == tErr.Expected
}

// UnsupportedResourceKindError is returned for a monitored resource whose
// kind has no readiness predicate.
type UnsupportedResourceKindError struct {
	Kind string
}

func (e *UnsupportedResourceKindError) Error() string {
	return fmt.Sprintf("the type [%s] is not supported yet", e.Kind)
}

func (e *UnsupportedResourceKindError) Is(err error) bool {
	if err == nil {
		return false
	}
	tErr, ok := err.(*UnsupportedResourceKindError)
	if !ok {
		return false
	}
	return e.Kind == tErr.Kind
}
