// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/condition"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/engine"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// IntegrationTestsStatusReader waits for the integration tests reported
// on a custom resource to finish. The tests report their state as the
// status condition with the configured reason; the condition has the
// "In Progress" type while they run.
type IntegrationTestsStatusReader struct {
	Reader clusterreader.ClusterReader
	Poller *engine.Poller

	// Reason identifies the condition written by the integration tests.
	Reason string
	// SuccessfulType is the condition type of passed integration tests.
	SuccessfulType string
}

func NewIntegrationTestsStatusReader(reader clusterreader.ClusterReader, poller *engine.Poller,
	reason, successfulType string) *IntegrationTestsStatusReader {
	return &IntegrationTestsStatusReader{
		Reader:         reader,
		Poller:         poller,
		Reason:         reason,
		SuccessfulType: successfulType,
	}
}

// Poll returns an empty message if the tests passed, the message of the
// condition if they did not, and a timeout message if they did not
// finish within the timeout.
func (r *IntegrationTestsStatusReader) Poll(ctx context.Context, ref object.CustomResourceRef, timeout time.Duration) (string, error) {
	klog.Infof("Processing integration tests status from [%s] resource", ref.Name)

	var message string
	done, err := r.Poller.Poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		u, err := r.Reader.GetCustomResourceStatus(ctx, ref)
		if err != nil {
			return false, fmt.Errorf("error reading status of custom resource [%s]: %w", ref, err)
		}
		conditions, _, err := unstructured.NestedSlice(u.Object, "status", "conditions")
		if err != nil {
			return false, fmt.Errorf("error reading conditions of custom resource [%s]: %w", ref, err)
		}
		c, found := condition.FindByReason(conditions, r.Reason)
		if !found || c.Type == condition.InProgressType {
			klog.V(3).Infof("integration tests on [%s] are not completed yet", ref)
			return false, nil
		}
		if c.Type != r.SuccessfulType {
			message = c.Message
			if message == "" {
				message = fmt.Sprintf("Integration tests have completed with [%s] condition type.", c.Type)
			}
		}
		return true, nil
	})
	if err != nil {
		return "", err
	}
	if !done {
		return fmt.Sprintf("Integration tests have not completed in %d seconds.", seconds(timeout)), nil
	}
	return message, nil
}
