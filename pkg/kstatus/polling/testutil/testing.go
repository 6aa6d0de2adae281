// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// YamlToUnstructured parses a manifest into an Unstructured. The manifest
// goes through JSON so numbers end up as int64, like objects read from
// the API server.
func YamlToUnstructured(t *testing.T, yml string) *unstructured.Unstructured {
	m := make(map[string]interface{})
	err := yaml.Unmarshal([]byte(yml), &m)
	if err != nil {
		t.Fatalf("error parsing yaml: %v", err)
		return nil
	}
	j, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("error converting yaml to json: %v", err)
		return nil
	}
	u := &unstructured.Unstructured{}
	if err := u.UnmarshalJSON(j); err != nil {
		t.Fatalf("error decoding manifest: %v", err)
		return nil
	}
	return u
}

// NewFakeDynamicClient returns a fake dynamic client serving the given
// objects. The resource of every object is guessed from its kind, so a
// Foo is served as foos.
func NewFakeDynamicClient(objs ...runtime.Object) *dynamicfake.FakeDynamicClient {
	return dynamicfake.NewSimpleDynamicClient(runtime.NewScheme(), objs...)
}

// FakeClusterReader is a ClusterReader whose responses are set per
// resource type. Unset functions answer with NotFound.
type FakeClusterReader struct {
	GetDaemonSetFunc            func(name string) (*appsv1.DaemonSet, error)
	GetDeploymentFunc           func(name string) (*appsv1.Deployment, error)
	GetStatefulSetFunc          func(name string) (*appsv1.StatefulSet, error)
	GetJobFunc                  func(name string) (*batchv1.Job, error)
	GetCustomResourceFunc       func(ref object.CustomResourceRef) (*unstructured.Unstructured, error)
	GetCustomResourceJSONFunc   func(ref object.CustomResourceRef) ([]byte, error)
	GetCustomResourceStatusFunc func(ref object.CustomResourceRef) (*unstructured.Unstructured, error)
}

func (f *FakeClusterReader) GetDaemonSet(_ context.Context, name string) (*appsv1.DaemonSet, error) {
	if f.GetDaemonSetFunc == nil {
		return nil, notFound("daemonsets", name)
	}
	return f.GetDaemonSetFunc(name)
}

func (f *FakeClusterReader) GetDeployment(_ context.Context, name string) (*appsv1.Deployment, error) {
	if f.GetDeploymentFunc == nil {
		return nil, notFound("deployments", name)
	}
	return f.GetDeploymentFunc(name)
}

func (f *FakeClusterReader) GetStatefulSet(_ context.Context, name string) (*appsv1.StatefulSet, error) {
	if f.GetStatefulSetFunc == nil {
		return nil, notFound("statefulsets", name)
	}
	return f.GetStatefulSetFunc(name)
}

func (f *FakeClusterReader) GetJob(_ context.Context, name string) (*batchv1.Job, error) {
	if f.GetJobFunc == nil {
		return nil, notFound("jobs", name)
	}
	return f.GetJobFunc(name)
}

func (f *FakeClusterReader) GetCustomResource(_ context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error) {
	if f.GetCustomResourceFunc == nil {
		return nil, notFound(ref.Plural, ref.Name)
	}
	return f.GetCustomResourceFunc(ref)
}

// GetCustomResourceJSON answers with GetCustomResourceJSONFunc if set,
// and with the encoded result of GetCustomResource otherwise.
func (f *FakeClusterReader) GetCustomResourceJSON(ctx context.Context, ref object.CustomResourceRef) ([]byte, error) {
	if f.GetCustomResourceJSONFunc != nil {
		return f.GetCustomResourceJSONFunc(ref)
	}
	u, err := f.GetCustomResource(ctx, ref)
	if err != nil {
		return nil, err
	}
	return u.MarshalJSON()
}

func (f *FakeClusterReader) GetCustomResourceStatus(_ context.Context, ref object.CustomResourceRef) (*unstructured.Unstructured, error) {
	if f.GetCustomResourceStatusFunc == nil {
		return nil, notFound(ref.Plural, ref.Name)
	}
	return f.GetCustomResourceStatusFunc(ref)
}

// UnstructuredSequence returns a getter that answers with the given
// objects in order, repeating the last one once the sequence is used up.
// It also returns a function reporting how many calls were made.
func UnstructuredSequence(objs ...*unstructured.Unstructured) (func(object.CustomResourceRef) (*unstructured.Unstructured, error), func() int) {
	var mu sync.Mutex
	calls := 0
	get := func(object.CustomResourceRef) (*unstructured.Unstructured, error) {
		mu.Lock()
		defer mu.Unlock()
		i := calls
		if i >= len(objs) {
			i = len(objs) - 1
		}
		calls++
		return objs[i].DeepCopy(), nil
	}
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	return get, count
}

func notFound(resource, name string) error {
	return apierrors.NewNotFound(schema.GroupResource{Resource: resource}, name)
}
