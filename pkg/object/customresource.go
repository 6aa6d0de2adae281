// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// CustomResourceRef identifies a namespaced custom resource by the
// group, version and plural resource name the API server serves it
// under, plus the name of the object.
type CustomResourceRef struct {
	Group   string
	Version string
	Plural  string
	Name    string
}

// ParseCustomResourceRef parses a reference of the form
//
//	group version plural name
//
// Surrounding whitespace is ignored; any other number of tokens is
// a MalformedResourceSpecError.
func ParseCustomResourceRef(s string) (CustomResourceRef, error) {
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return CustomResourceRef{}, &MalformedResourceSpecError{
			Spec:     s,
			Expected: customResourceParts,
		}
	}
	return CustomResourceRef{
		Group:   parts[0],
		Version: parts[1],
		Plural:  parts[2],
		Name:    parts[3],
	}, nil
}

// GroupVersionResource returns the resource the reference is served under.
func (r CustomResourceRef) GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    r.Group,
		Version:  r.Version,
		Resource: r.Plural,
	}
}

func (r CustomResourceRef) String() string {
	return fmt.Sprintf("%s/%s %s %s", r.Group, r.Version, r.Plural, r.Name)
}

// MonitoredCustomResource is a custom resource together with the
// JSONPath expression that selects its processing state and the values
// of that state which mean success and (optionally) failure.
type MonitoredCustomResource struct {
	Ref          CustomResourceRef
	Path         string
	SuccessValue string
	// FailValue is nil when no failure marker was given, in which case
	// only a timeout can end polling unsuccessfully.
	FailValue *string
}

// ParseMonitoredCustomResource parses a description of the form
//
//	group version plural name path successValue [failValue]
func ParseMonitoredCustomResource(s string) (MonitoredCustomResource, error) {
	parts := strings.Fields(s)
	if len(parts) != 6 && len(parts) != 7 {
		return MonitoredCustomResource{}, &MalformedResourceSpecError{
			Spec:     s,
			Expected: monitoredCustomResourceParts,
		}
	}
	ref, err := ParseCustomResourceRef(strings.Join(parts[:4], " "))
	if err != nil {
		return MonitoredCustomResource{}, err
	}
	cr := MonitoredCustomResource{
		Ref:          ref,
		Path:         parts[4],
		SuccessValue: parts[5],
	}
	if len(parts) == 7 {
		failValue := parts[6]
		cr.FailValue = &failValue
	}
	return cr, nil
}

func (m MonitoredCustomResource) String() string {
	return m.Ref.String()
}

// ParseMonitoredCustomResources parses a comma-separated list of custom
// resource descriptions. An empty string yields an empty list.
func ParseMonitoredCustomResources(s string) ([]MonitoredCustomResource, error) {
	var result []MonitoredCustomResource
	for _, entry := range splitList(s) {
		cr, err := ParseMonitoredCustomResource(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, cr)
	}
	return result, nil
}

// splitList splits a comma-separated list and trims every entry.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	entries := strings.Split(s, ",")
	for i := range entries {
		entries[i] = strings.TrimSpace(entries[i])
	}
	return entries
}
