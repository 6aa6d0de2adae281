// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/klog/v2"
)

func isStatefulSetReady(sts *appsv1.StatefulSet) bool {
	s := sts.Status
	klog.V(3).Infof("statefulset %q: replicas=%d ready=%d updated=%d",
		sts.Name, s.Replicas, s.ReadyReplicas, s.UpdatedReplicas)
	return s.Replicas == s.ReadyReplicas && s.Replicas == s.UpdatedReplicas
}
