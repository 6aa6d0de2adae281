// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package clusterreader

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// ClusterReader is the interface the status readers and the publisher
// use to fetch resources from the cluster. All resources are read from
// a single namespace chosen when the reader is created.
//
// Errors from the API server, including NotFound, are returned as-is so
// callers can tell a missing resource from one that is not ready yet.
type ClusterReader interface {
	GetDaemonSet(ctx context.Context, name string) (*appsv1.DaemonSet, error)
	GetDeployment(ctx context.Context, name string) (*appsv1.Deployment, error)
	GetStatefulSet(ctx context.Context, name string) (*appsv1.StatefulSet, error)
	GetJob(ctx context.Context, name string) (*batchv1.Job, error)

	// GetCustomResource fetches the whole custom resource.
	GetCustomResource(ctx context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error)
	// GetCustomResourceJSON fetches the whole custom resource as JSON,
	// with object members in the order the server sent them.
	GetCustomResourceJSON(ctx context.Context, ref object.CustomResourceRef) ([]byte, error)
	// GetCustomResourceStatus fetches the custom resource through its
	// status subresource.
	GetCustomResourceStatus(ctx context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error)
}
