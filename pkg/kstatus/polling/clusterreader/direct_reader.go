// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package clusterreader

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

const statusSubresource = "status"

// DirectClusterReader is an implementation of the ClusterReader that just delegates all calls directly to
// the typed and dynamic clients. No caching.
type DirectClusterReader struct {
	Client        kubernetes.Interface
	DynamicClient dynamic.Interface
	Namespace     string

	// RESTClient is an unversioned client used to read custom resources
	// as raw JSON. Without it the JSON is re-encoded from the dynamic
	// client's result, which sorts object members by key.
	RESTClient rest.Interface
}

var _ ClusterReader = &DirectClusterReader{}

func NewDirectClusterReader(client kubernetes.Interface, dynamicClient dynamic.Interface, namespace string) *DirectClusterReader {
	return &DirectClusterReader{
		Client:        client,
		DynamicClient: dynamicClient,
		Namespace:     namespace,
	}
}

func (n *DirectClusterReader) GetDaemonSet(ctx context.Context, name string) (*appsv1.DaemonSet, error) {
	return n.Client.AppsV1().DaemonSets(n.Namespace).Get(ctx, name, metav1.GetOptions{})
}

func (n *DirectClusterReader) GetDeployment(ctx context.Context, name string) (*appsv1.Deployment, error) {
	return n.Client.AppsV1().Deployments(n.Namespace).Get(ctx, name, metav1.GetOptions{})
}

func (n *DirectClusterReader) GetStatefulSet(ctx context.Context, name string) (*appsv1.StatefulSet, error) {
	return n.Client.AppsV1().StatefulSets(n.Namespace).Get(ctx, name, metav1.GetOptions{})
}

func (n *DirectClusterReader) GetJob(ctx context.Context, name string) (*batchv1.Job, error) {
	return n.Client.BatchV1().Jobs(n.Namespace).Get(ctx, name, metav1.GetOptions{})
}

func (n *DirectClusterReader) GetCustomResource(ctx context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error) {
	klog.V(5).Infof("getting custom resource %q in namespace %q", ref, n.Namespace)
	return n.DynamicClient.Resource(ref.GroupVersionResource()).Namespace(n.Namespace).
		Get(ctx, ref.Name, metav1.GetOptions{})
}

func (n *DirectClusterReader) GetCustomResourceJSON(ctx context.Context, ref object.CustomResourceRef) ([]byte, error) {
	if n.RESTClient == nil {
		u, err := n.GetCustomResource(ctx, ref)
		if err != nil {
			return nil, err
		}
		return u.MarshalJSON()
	}
	klog.V(5).Infof("getting raw custom resource %q in namespace %q", ref, n.Namespace)
	return n.RESTClient.Get().
		AbsPath("/apis", ref.Group, ref.Version, "namespaces", n.Namespace, ref.Plural, ref.Name).
		Do(ctx).
		Raw()
}

func (n *DirectClusterReader) GetCustomResourceStatus(ctx context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error) {
	klog.V(5).Infof("getting status of custom resource %q in namespace %q", ref, n.Namespace)
	return n.DynamicClient.Resource(ref.GroupVersionResource()).Namespace(n.Namespace).
		Get(ctx, ref.Name, metav1.GetOptions{}, statusSubresource)
}
