// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUnstructured(t *testing.T) {
	reason := "A"
	testCases := map[string]struct {
		raw      interface{}
		expected StoredCondition
	}{
		"all fields": {
			raw: map[string]interface{}{
				"type":    "Ready",
				"status":  "True",
				"reason":  "A",
				"message": "m",
			},
			expected: StoredCondition{Type: "Ready", Status: "True", Reason: &reason, Message: "m"},
		},
		"missing reason": {
			raw: map[string]interface{}{
				"type":    "Ready",
				"message": "A",
			},
			expected: StoredCondition{Type: "Ready", Message: "A"},
		},
		"null reason": {
			raw: map[string]interface{}{
				"reason":  nil,
				"message": "A",
			},
			expected: StoredCondition{Message: "A"},
		},
		"not an object": {
			raw:      "Ready",
			expected: StoredCondition{},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromUnstructured(tc.raw))
		})
	}
}

func TestFindByReason(t *testing.T) {
	conditions := []interface{}{
		map[string]interface{}{"type": "Successful", "message": IntegrationTestsReason},
		map[string]interface{}{"type": "Failed", "reason": "Other", "message": "x"},
		map[string]interface{}{"type": "In Progress", "reason": IntegrationTestsReason, "message": "y"},
		map[string]interface{}{"type": "Ready", "reason": IntegrationTestsReason, "message": "z"},
	}

	c, found := FindByReason(conditions, IntegrationTestsReason)
	require.True(t, found)
	assert.Equal(t, InProgressType, c.Type)
	assert.Equal(t, "y", c.Message)

	_, found = FindByReason(conditions, "Missing")
	assert.False(t, found)

	_, found = FindByReason(nil, IntegrationTestsReason)
	assert.False(t, found)
}
