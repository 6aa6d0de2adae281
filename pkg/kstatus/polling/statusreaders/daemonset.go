// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/klog/v2"
)

// isDaemonSetReady returns true when every node that should run a pod
// of the DaemonSet runs a ready pod of the latest revision.
func isDaemonSetReady(ds *appsv1.DaemonSet) bool {
	s := ds.Status
	klog.V(3).Infof("daemonset %q: desired=%d ready=%d updated=%d",
		ds.Name, s.DesiredNumberScheduled, s.NumberReady, s.UpdatedNumberScheduled)
	return s.DesiredNumberScheduled == s.NumberReady &&
		s.DesiredNumberScheduled == s.UpdatedNumberScheduled
}
