// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"strings"
)

// Kind is the closed set of workload kinds whose readiness can be
// checked.
type Kind string

const (
	DaemonSetKind   Kind = "daemonset"
	DeploymentKind  Kind = "deployment"
	JobKind         Kind = "job"
	StatefulSetKind Kind = "statefulset"
)

// Kinds lists every supported Kind.
var Kinds = []Kind{DaemonSetKind, DeploymentKind, JobKind, StatefulSetKind}

// ParseKind maps a case-insensitive kind name onto a Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(s))
	switch kind {
	case DaemonSetKind, DeploymentKind, JobKind, StatefulSetKind:
		return kind, nil
	default:
		return "", &UnsupportedResourceKindError{Kind: s}
	}
}

// MonitoredResource is a workload in the target namespace that must
// become ready.
type MonitoredResource struct {
	Kind Kind
	Name string
}

// ParseMonitoredResource parses a description of the form "kind name".
// The kind is lowercased but not checked against the supported Kinds,
// see Validate.
func ParseMonitoredResource(s string) (MonitoredResource, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return MonitoredResource{}, &MalformedResourceSpecError{
			Spec:     s,
			Expected: monitoredResourceParts,
		}
	}
	return MonitoredResource{
		Kind: Kind(strings.ToLower(parts[0])),
		Name: parts[1],
	}, nil
}

// Validate checks that the kind of the resource is one of the
// supported Kinds.
func (m MonitoredResource) Validate() error {
	_, err := ParseKind(string(m.Kind))
	return err
}

func (m MonitoredResource) String() string {
	return fmt.Sprintf("%s %s", m.Kind, m.Name)
}

// ParseMonitoredResources parses a comma-separated list of "kind name"
// descriptions. An empty string yields an empty list.
func ParseMonitoredResources(s string) ([]MonitoredResource, error) {
	var result []MonitoredResource
	for _, entry := range splitList(s) {
		r, err := ParseMonitoredResource(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}
