// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/klog/v2"
)

// isJobSucceeded returns true when exactly one pod of the Job succeeded.
// Jobs with more completions are never considered succeeded.
func isJobSucceeded(job *batchv1.Job) bool {
	klog.V(3).Infof("job %q: succeeded=%d", job.Name, job.Status.Succeeded)
	return job.Status.Succeeded == 1
}
