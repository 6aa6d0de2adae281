// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

// Package publisher writes readiness conditions onto the status of a
// custom resource.
//
// Conditions are written in one of two forms. The list form keeps full
// conditions in status.conditions, one per reason, and is written to the
// status subresource. The field form keeps core/v1 ComponentConditions,
// carrying the reason in their message, and is written to the resource
// itself for resources without a status subresource.
//
// Both forms read the current conditions, merge the new one in and write
// the whole list back with a JSON merge patch. The patch carries no
// resourceVersion, so concurrent writers can overwrite each other.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/condition"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

const statusSubresource = "status"

// Publisher writes conditions onto a single custom resource.
type Publisher struct {
	Reader    clusterreader.ClusterReader
	Client    dynamic.Interface
	Namespace string
	Ref       object.CustomResourceRef
	// AsField selects the field form.
	AsField bool
}

func NewPublisher(reader clusterreader.ClusterReader, client dynamic.Interface, namespace string,
	ref object.CustomResourceRef, asField bool) *Publisher {
	return &Publisher{
		Reader:    reader,
		Client:    client,
		Namespace: namespace,
		Ref:       ref,
		AsField:   asField,
	}
}

// Publish merges the condition into the conditions of the resource and
// writes them back.
func (p *Publisher) Publish(ctx context.Context, c condition.Condition) error {
	klog.V(1).Infof("Setting [%s] condition on [%s] custom resource", c.Type, p.Ref)
	if p.AsField {
		return p.publishField(ctx, c)
	}
	return p.publishList(ctx, c)
}

func (p *Publisher) publishList(ctx context.Context, c condition.Condition) error {
	u, err := p.Reader.GetCustomResourceStatus(ctx, p.Ref)
	if err != nil {
		return fmt.Errorf("error reading status of custom resource [%s]: %w", p.Ref, err)
	}
	existing, err := existingConditions(u)
	if err != nil {
		return err
	}
	return p.patch(ctx, MergeConditionList(existing, c), statusSubresource)
}

func (p *Publisher) publishField(ctx context.Context, c condition.Condition) error {
	u, err := p.Reader.GetCustomResource(ctx, p.Ref)
	if err != nil {
		return fmt.Errorf("error reading custom resource [%s]: %w", p.Ref, err)
	}
	raw, err := existingConditions(u)
	if err != nil {
		return err
	}
	existing := make([]corev1.ComponentCondition, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected condition %v on custom resource [%s]", r, p.Ref)
		}
		var cc corev1.ComponentCondition
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, &cc); err != nil {
			return fmt.Errorf("error decoding condition on custom resource [%s]: %w", p.Ref, err)
		}
		existing = append(existing, cc)
	}

	merged := MergeComponentConditions(existing, ComponentCondition(c))
	conditions := make([]interface{}, 0, len(merged))
	for i := range merged {
		m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&merged[i])
		if err != nil {
			return fmt.Errorf("error encoding condition: %w", err)
		}
		conditions = append(conditions, m)
	}
	return p.patch(ctx, conditions)
}

func (p *Publisher) patch(ctx context.Context, conditions []interface{}, subresources ...string) error {
	data, err := json.Marshal(map[string]interface{}{
		"status": map[string]interface{}{
			"conditions": conditions,
		},
	})
	if err != nil {
		return fmt.Errorf("error encoding patch: %w", err)
	}
	_, err = p.Client.Resource(p.Ref.GroupVersionResource()).Namespace(p.Namespace).
		Patch(ctx, p.Ref.Name, types.MergePatchType, data, metav1.PatchOptions{}, subresources...)
	if err != nil {
		return fmt.Errorf("error updating status of custom resource [%s]: %w", p.Ref, err)
	}
	return nil
}

func existingConditions(u *unstructured.Unstructured) ([]interface{}, error) {
	conditions, _, err := unstructured.NestedSlice(u.Object, "status", "conditions")
	if err != nil {
		return nil, fmt.Errorf("error reading conditions of %s %q: %w", u.GetKind(), u.GetName(), err)
	}
	return conditions, nil
}

// MergeConditionList returns the conditions with c merged in. An entry
// with the reason of c is replaced in place. Entries written before
// conditions carried a reason have none, and are matched by a message
// equal to the reason of c instead. If nothing matches, c is appended.
// The input is not modified.
func MergeConditionList(existing []interface{}, c condition.Condition) []interface{} {
	merged := make([]interface{}, len(existing), len(existing)+1)
	copy(merged, existing)
	for i, raw := range merged {
		stored := condition.FromUnstructured(raw)
		if stored.HasReason(c.Reason) || (stored.Reason == nil && stored.Message == c.Reason) {
			merged[i] = c.ToUnstructured()
			return merged
		}
	}
	return append(merged, c.ToUnstructured())
}

// ComponentCondition returns the field form of a condition. The reason
// identifies the entry, so it goes into the message.
func ComponentCondition(c condition.Condition) corev1.ComponentCondition {
	return corev1.ComponentCondition{
		Type:    corev1.ComponentConditionType(c.Type),
		Status:  corev1.ConditionStatus(c.Status),
		Message: c.Reason,
	}
}

// MergeComponentConditions returns the conditions with c merged in. The
// entry with the message of c is replaced in place; if there is none, c
// is appended. The input is not modified.
func MergeComponentConditions(existing []corev1.ComponentCondition, c corev1.ComponentCondition) []corev1.ComponentCondition {
	merged := make([]corev1.ComponentCondition, len(existing), len(existing)+1)
	copy(merged, existing)
	for i := range merged {
		if merged[i].Message == c.Message {
			merged[i] = c
			return merged
		}
	}
	return append(merged, c)
}
