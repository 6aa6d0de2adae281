// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package condition

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/clock"
)

// Condition types written to, or looked for on, custom resources.
const (
	FailedType     = "Failed"
	InProgressType = "In Progress"
	ReadyType      = "Ready"
	SuccessfulType = "Successful"
)

// Condition reasons identify the condition family a condition belongs to.
const (
	DefaultReason          = "ServiceReadinessStatus"
	IntegrationTestsReason = "IntegrationTestsExecutionStatus"
)

const (
	InProgressMessage              = "Computing of cluster state is in progress"
	SuccessMessage                 = "All components are in ready status."
	IntegrationTestsSuccessMessage = "Integration tests are successfully completed."
)

// TimeFormat is the layout of LastTransitionTime: UTC with millisecond
// precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Condition is a single status condition as it is written onto the
// status of a custom resource.
type Condition struct {
	Type               string                 `json:"type"`
	Status             metav1.ConditionStatus `json:"status"`
	LastTransitionTime string                 `json:"lastTransitionTime"`
	Reason             string                 `json:"reason"`
	Message            string                 `json:"message"`
}

// ToUnstructured returns the condition as an entry for an unstructured
// conditions list.
func (c Condition) ToUnstructured() map[string]interface{} {
	return map[string]interface{}{
		"type":               c.Type,
		"status":             string(c.Status),
		"lastTransitionTime": c.LastTransitionTime,
		"reason":             c.Reason,
		"message":            c.Message,
	}
}

// Builder creates conditions of a single condition family, i.e. all with
// the same reason.
type Builder struct {
	Reason         string
	SuccessfulType string
	Clock          clock.PassiveClock
}

func NewBuilder(reason, successfulType string) *Builder {
	return &Builder{
		Reason:         reason,
		SuccessfulType: successfulType,
		Clock:          clock.RealClock{},
	}
}

// Condition returns a condition of the given type stamped with the
// current time. The status is True only for the successful type.
func (b *Builder) Condition(conditionType, message string) Condition {
	status := metav1.ConditionFalse
	if conditionType == b.SuccessfulType {
		status = metav1.ConditionTrue
	}
	return Condition{
		Type:               conditionType,
		Status:             status,
		LastTransitionTime: FormatTime(b.now()),
		Reason:             b.Reason,
		Message:            message,
	}
}

func (b *Builder) now() time.Time {
	if b.Clock == nil {
		return time.Now()
	}
	return b.Clock.Now()
}

// FormatTime formats t the way LastTransitionTime is written.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}
