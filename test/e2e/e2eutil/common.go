// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package e2eutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	v1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

// The custom resource used by the tests, both as the monitored custom
// resource and as the resource the condition is written to.
const (
	AppGroup   = "e2e.status-provisioner.example.com"
	AppVersion = "v1"
	AppPlural  = "apps"
	AppKind    = "App"
)

var AppGVR = schema.GroupVersionResource{Group: AppGroup, Version: AppVersion, Resource: AppPlural}

func RandomString(prefix string) string {
	return fmt.Sprintf("%s%s", prefix, strings.Split(uuid.New().String(), "-")[0])
}

func appCRD() *apiextensionsv1.CustomResourceDefinition {
	preserveUnknownFields := true
	return &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: AppPlural + "." + AppGroup},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: AppGroup,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:   AppPlural,
				Singular: strings.ToLower(AppKind),
				Kind:     AppKind,
				ListKind: AppKind + "List",
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    AppVersion,
					Served:  true,
					Storage: true,
					Subresources: &apiextensionsv1.CustomResourceSubresources{
						Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
					},
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
							Type:                   "object",
							XPreserveUnknownFields: &preserveUnknownFields,
						},
					},
				},
			},
		},
	}
}

// CreateAppCRD installs the App CRD and waits until it is established.
func CreateAppCRD(ctx context.Context, c apiextensionsclient.Interface) {
	crd := appCRD()
	_, err := c.ApiextensionsV1().CustomResourceDefinitions().Create(ctx, crd, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	}

	gomega.Eventually(func() bool {
		crd, err := c.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, crd.Name, metav1.GetOptions{})
		if err != nil {
			return false
		}
		for _, cond := range crd.Status.Conditions {
			if cond.Type == apiextensionsv1.Established && cond.Status == apiextensionsv1.ConditionTrue {
				return true
			}
		}
		return false
	}, 30*time.Second, time.Second).Should(gomega.BeTrue(), "App CRD is not established")
}

func DeleteAppCRD(ctx context.Context, c apiextensionsclient.Interface) {
	err := c.ApiextensionsV1().CustomResourceDefinitions().Delete(ctx, appCRD().Name, metav1.DeleteOptions{})
	if !apierrors.IsNotFound(err) {
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	}
}

func CreateRandomNamespace(ctx context.Context, c kubernetes.Interface) *v1.Namespace {
	namespace := &v1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: RandomString("e2e-test-")},
	}
	namespace, err := c.CoreV1().Namespaces().Create(ctx, namespace, metav1.CreateOptions{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return namespace
}

func DeleteNamespace(ctx context.Context, c kubernetes.Interface, namespace *v1.Namespace) {
	err := c.CoreV1().Namespaces().Delete(ctx, namespace.Name, metav1.DeleteOptions{})
	if !apierrors.IsNotFound(err) {
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	}
}

// CreateIdleDeployment creates a deployment scaled to zero, which is
// ready as soon as its controller has observed it.
func CreateIdleDeployment(ctx context.Context, c kubernetes.Interface, namespace, name string) {
	replicas := int32(0)
	labels := map[string]string{"app": name}
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: v1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: v1.PodSpec{
					Containers: []v1.Container{{Name: "main", Image: "registry.k8s.io/pause:3.7"}},
				},
			},
		},
	}
	_, err := c.AppsV1().Deployments(namespace).Create(ctx, deployment, metav1.CreateOptions{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
}

// CreateApp creates an App and sets its status.
func CreateApp(ctx context.Context, c dynamic.Interface, namespace, name string, status map[string]interface{}) {
	app := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": AppGroup + "/" + AppVersion,
		"kind":       AppKind,
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
	}}
	created, err := c.Resource(AppGVR).Namespace(namespace).Create(ctx, app, metav1.CreateOptions{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	if status == nil {
		return
	}
	created.Object["status"] = status
	_, err = c.Resource(AppGVR).Namespace(namespace).UpdateStatus(ctx, created, metav1.UpdateOptions{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
}

// AppConditions returns the conditions on the status of an App.
func AppConditions(ctx context.Context, c dynamic.Interface, namespace, name string) []interface{} {
	app, err := c.Resource(AppGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	conditions, _, err := unstructured.NestedSlice(app.Object, "status", "conditions")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return conditions
}

// AppRef returns the description of an App as used in the settings.
func AppRef(name string) string {
	return fmt.Sprintf("%s %s %s %s", AppGroup, AppVersion, AppPlural, name)
}
