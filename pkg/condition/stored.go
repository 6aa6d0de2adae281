// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package condition

import (
	"k8s.io/apimachinery/pkg/runtime"
)

// StoredCondition is the typed view of a condition entry read back from
// a resource status. Entries may have been written by other tools, so
// every field is optional. Reason is nil when the entry has no reason,
// which is how conditions written by older releases look.
type StoredCondition struct {
	Type    string  `json:"type,omitempty"`
	Status  string  `json:"status,omitempty"`
	Reason  *string `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
}

// HasReason reports whether the entry carries the given reason.
func (s StoredCondition) HasReason(reason string) bool {
	return s.Reason != nil && *s.Reason == reason
}

// FromUnstructured decodes a single entry of an unstructured conditions
// list. Entries that are not objects, or whose fields have unexpected
// types, decode to the zero value.
func FromUnstructured(raw interface{}) StoredCondition {
	var c StoredCondition
	m, ok := raw.(map[string]interface{})
	if !ok {
		return c
	}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, &c); err != nil {
		return StoredCondition{}
	}
	return c
}

// FindByReason returns the first entry of the conditions list with the
// given reason.
func FindByReason(conditions []interface{}, reason string) (StoredCondition, bool) {
	for _, raw := range conditions {
		c := FromUnstructured(raw)
		if c.HasReason(reason) {
			return c, true
		}
	}
	return StoredCondition{}, false
}
