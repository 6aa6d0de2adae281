// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonitoredResource(t *testing.T) {
	testCases := map[string]struct {
		spec        string
		expected    MonitoredResource
		expectedErr error
	}{
		"deployment": {
			spec:     "deployment foo",
			expected: MonitoredResource{Kind: DeploymentKind, Name: "foo"},
		},
		"kind is lowercased": {
			spec:     "  StatefulSet   bar ",
			expected: MonitoredResource{Kind: StatefulSetKind, Name: "bar"},
		},
		"unknown kind is still parsed": {
			spec:     "replicaset baz",
			expected: MonitoredResource{Kind: Kind("replicaset"), Name: "baz"},
		},
		"missing name": {
			spec: "deployment",
			expectedErr: &MalformedResourceSpecError{
				Spec:     "deployment",
				Expected: monitoredResourceParts,
			},
		},
		"too many parts": {
			spec: "deployment foo bar",
			expectedErr: &MalformedResourceSpecError{
				Spec:     "deployment foo bar",
				Expected: monitoredResourceParts,
			},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			r, err := ParseMonitoredResource(tc.spec)
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r)
		})
	}
}

func TestMonitoredResourceValidate(t *testing.T) {
	for _, k := range Kinds {
		assert.NoError(t, MonitoredResource{Kind: k, Name: "foo"}.Validate())
	}

	err := MonitoredResource{Kind: "cronjob", Name: "foo"}.Validate()
	var kindErr *UnsupportedResourceKindError
	require.True(t, errors.As(err, &kindErr))
	assert.Equal(t, "cronjob", kindErr.Kind)
}

func TestParseMonitoredResources(t *testing.T) {
	resources, err := ParseMonitoredResources("deployment foo, daemonset bar ,job baz")
	require.NoError(t, err)
	assert.Equal(t, []MonitoredResource{
		{Kind: DeploymentKind, Name: "foo"},
		{Kind: DaemonSetKind, Name: "bar"},
		{Kind: JobKind, Name: "baz"},
	}, resources)

	resources, err = ParseMonitoredResources("   ")
	require.NoError(t, err)
	assert.Empty(t, resources)

	_, err = ParseMonitoredResources("deployment foo, statefulset")
	var specErr *MalformedResourceSpecError
	require.True(t, errors.As(err, &specErr))
	assert.Equal(t, "statefulset", specErr.Spec)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("DaemonSet")
	require.NoError(t, err)
	assert.Equal(t, DaemonSetKind, kind)

	_, err = ParseKind("pod")
	assert.EqualError(t, err, "the type [pod] is not supported yet")
}
