// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/klog/v2"
)

// isDeploymentReady compares the replica counters reported in the
// status. The desired replica count in the spec is not consulted.
func isDeploymentReady(d *appsv1.Deployment) bool {
	s := d.Status
	klog.V(3).Infof("deployment %q: replicas=%d ready=%d updated=%d",
		d.Name, s.Replicas, s.ReadyReplicas, s.UpdatedReplicas)
	return s.Replicas == s.ReadyReplicas && s.Replicas == s.UpdatedReplicas
}
