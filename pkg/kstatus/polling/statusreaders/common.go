// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	"context"
	"fmt"

	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// ResourceStatusReader computes readiness of workloads. It fetches the
// resource once per call and applies the readiness rule of its kind.
type ResourceStatusReader struct {
	Reader clusterreader.ClusterReader
}

func NewResourceStatusReader(reader clusterreader.ClusterReader) *ResourceStatusReader {
	return &ResourceStatusReader{
		Reader: reader,
	}
}

// IsReady fetches the resource and reports whether it is ready. Any
// error from the cluster, including NotFound, is returned wrapped and
// must not be treated as "not ready yet".
func (r *ResourceStatusReader) IsReady(ctx context.Context, resource object.MonitoredResource) (bool, error) {
	switch resource.Kind {
	case object.DaemonSetKind:
		daemonSet, err := r.Reader.GetDaemonSet(ctx, resource.Name)
		if err != nil {
			return false, readError(resource, err)
		}
		return isDaemonSetReady(daemonSet), nil
	case object.DeploymentKind:
		deployment, err := r.Reader.GetDeployment(ctx, resource.Name)
		if err != nil {
			return false, readError(resource, err)
		}
		return isDeploymentReady(deployment), nil
	case object.JobKind:
		job, err := r.Reader.GetJob(ctx, resource.Name)
		if err != nil {
			return false, readError(resource, err)
		}
		return isJobSucceeded(job), nil
	case object.StatefulSetKind:
		statefulSet, err := r.Reader.GetStatefulSet(ctx, resource.Name)
		if err != nil {
			return false, readError(resource, err)
		}
		return isStatefulSetReady(statefulSet), nil
	default:
		return false, &object.UnsupportedResourceKindError{Kind: string(resource.Kind)}
	}
}

func readError(resource object.MonitoredResource, err error) error {
	return fmt.Errorf("error reading status of %s %q: %w", resource.Kind, resource.Name, err)
}
