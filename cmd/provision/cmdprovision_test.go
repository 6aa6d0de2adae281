// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/testutil"
	"sigs.k8s.io/status-provisioner/pkg/object"
	"sigs.k8s.io/status-provisioner/pkg/util/factory"
)

var appManifest = `
apiVersion: example.com/v1
kind: App
metadata:
  name: app
  namespace: test
status:
  conditions:
  - type: Ready
    status: "True"
    reason: SomethingElse
    message: unrelated
`

var appRef = object.CustomResourceRef{Group: "example.com", Version: "v1", Plural: "apps", Name: "app"}

func readyDeployment(name string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "test"},
		Status:     appsv1.DeploymentStatus{Replicas: 1, ReadyReplicas: 1, UpdatedReplicas: 1},
	}
}

type fixture struct {
	dynamicClient *dynamicfake.FakeDynamicClient
	clientsCalls  int
	out           func() string
	command       func(args ...string) error
}

func newFixture(t *testing.T, env map[string]string, deployments ...*appsv1.Deployment) *fixture {
	f := &fixture{
		dynamicClient: testutil.NewFakeDynamicClient(testutil.YamlToUnstructured(t, appManifest)),
	}
	client := fake.NewSimpleClientset()
	for _, d := range deployments {
		require.NoError(t, client.Tracker().Add(d))
	}
	clientsFunc := func(context.Context) (*factory.Clients, error) {
		f.clientsCalls++
		return &factory.Clients{Client: client, DynamicClient: f.dynamicClient}, nil
	}

	options, err := config.NewOptions(func(name string) string {
		return env[name]
	})
	require.NoError(t, err)
	namespace := env[config.EnvNamespace]
	configFlags := genericclioptions.NewConfigFlags(false)
	configFlags.Namespace = &namespace

	ioStreams, _, out, _ := genericclioptions.NewTestIOStreams()
	f.out = out.String
	f.command = func(args ...string) error {
		cmd := Command(context.Background(), configFlags, options, clientsFunc, ioStreams)
		cmd.SetArgs(args)
		cmd.SetOut(out)
		return cmd.Execute()
	}
	return f
}

func (f *fixture) conditions(t *testing.T) []interface{} {
	u, err := f.dynamicClient.Resource(appRef.GroupVersionResource()).Namespace("test").
		Get(context.Background(), "app", metav1.GetOptions{})
	require.NoError(t, err)
	conditions, _, err := unstructured.NestedSlice(u.Object, "status", "conditions")
	require.NoError(t, err)
	return conditions
}

func (f *fixture) patches() []clienttesting.PatchAction {
	var patches []clienttesting.PatchAction
	for _, a := range f.dynamicClient.Actions() {
		if p, ok := a.(clienttesting.PatchAction); ok {
			patches = append(patches, p)
		}
	}
	return patches
}

func TestProvision(t *testing.T) {
	env := map[string]string{
		config.EnvMonitoredResources:  "deployment api, Deployment worker",
		config.EnvNamespace:           "test",
		config.EnvResourceToSetStatus: "example.com v1 apps app",
	}
	f := newFixture(t, env, readyDeployment("api"), readyDeployment("worker"))

	require.NoError(t, f.command("--output=json"))

	patches := f.patches()
	require.Len(t, patches, 2)
	for _, p := range patches {
		assert.Equal(t, "status", p.GetSubresource())
	}
	var firstPatch map[string]interface{}
	require.NoError(t, json.Unmarshal(patches[0].GetPatch(), &firstPatch))
	firstConditions, _, err := unstructured.NestedSlice(firstPatch, "status", "conditions")
	require.NoError(t, err)
	require.Len(t, firstConditions, 2)
	assert.Equal(t, "In Progress", firstConditions[1].(map[string]interface{})["type"])

	conditions := f.conditions(t)
	require.Len(t, conditions, 2)
	assert.Equal(t, "unrelated", conditions[0].(map[string]interface{})["message"])
	published := conditions[1].(map[string]interface{})
	assert.Equal(t, "Successful", published["type"])
	assert.Equal(t, "True", published["status"])
	assert.Equal(t, "ServiceReadinessStatus", published["reason"])
	assert.Equal(t, "All components are in ready status.", published["message"])

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(f.out()), &result))
	assert.Equal(t, "test", result["namespace"])
	assert.Equal(t, "example.com/v1 apps app", result["resource"])
}

func TestProvisionNotReady(t *testing.T) {
	env := map[string]string{
		config.EnvMonitoredResources:  "deployment api, deployment worker",
		config.EnvNamespace:           "test",
		config.EnvResourceToSetStatus: "example.com v1 apps app",
		config.EnvFailedConditionType: "Broken",
		config.EnvPodReadinessTimeout: "0",
	}
	notReady := readyDeployment("worker")
	notReady.Status.ReadyReplicas = 0
	f := newFixture(t, env, readyDeployment("api"), notReady)

	require.NoError(t, f.command())

	conditions := f.conditions(t)
	require.Len(t, conditions, 2)
	published := conditions[1].(map[string]interface{})
	assert.Equal(t, "Broken", published["type"])
	assert.Equal(t, "False", published["status"])
	assert.Equal(t, "[worker] component is not ready.", published["message"])
	assert.Empty(t, f.out())
}

func TestProvisionFieldForm(t *testing.T) {
	env := map[string]string{
		config.EnvMonitoredResources:  "deployment api",
		config.EnvNamespace:           "test",
		config.EnvResourceToSetStatus: "example.com v1 apps app",
		config.EnvTreatStatusAsField:  "true",
	}
	f := newFixture(t, env, readyDeployment("api"))

	require.NoError(t, f.command())

	for _, p := range f.patches() {
		assert.Empty(t, p.GetSubresource())
	}
	conditions := f.conditions(t)
	require.Len(t, conditions, 2)
	assert.Equal(t, map[string]interface{}{
		"type":    "Successful",
		"status":  "True",
		"message": "ServiceReadinessStatus",
	}, conditions[1])
}

func TestProvisionNothingToDo(t *testing.T) {
	testCases := map[string]map[string]string{
		"nothing monitored": {
			config.EnvNamespace:           "test",
			config.EnvResourceToSetStatus: "example.com v1 apps app",
		},
		"no namespace": {
			config.EnvMonitoredResources:  "deployment api",
			config.EnvResourceToSetStatus: "example.com v1 apps app",
		},
		"no resource to set status on": {
			config.EnvMonitoredResources: "deployment api",
			config.EnvNamespace:          "test",
		},
	}

	for tn, env := range testCases {
		t.Run(tn, func(t *testing.T) {
			f := newFixture(t, env)
			require.NoError(t, f.command())
			assert.Equal(t, 0, f.clientsCalls)
			assert.Empty(t, f.patches())
		})
	}
}

func TestProvisionErrors(t *testing.T) {
	testCases := map[string]struct {
		env         map[string]string
		args        []string
		expectedErr error
		expectCalls bool
	}{
		"unsupported kind": {
			env: map[string]string{
				config.EnvMonitoredResources:  "deployment api, cronjob nightly",
				config.EnvNamespace:           "test",
				config.EnvResourceToSetStatus: "example.com v1 apps app",
			},
			expectedErr: &object.UnsupportedResourceKindError{Kind: "cronjob"},
		},
		"malformed custom resource": {
			env: map[string]string{
				config.EnvMonitoredCustomResources: "example.com v1 foos",
				config.EnvNamespace:                "test",
				config.EnvResourceToSetStatus:      "example.com v1 apps app",
			},
			expectedErr: &object.MalformedResourceSpecError{},
		},
		"unknown output": {
			env: map[string]string{
				config.EnvMonitoredResources:  "deployment api",
				config.EnvNamespace:           "test",
				config.EnvResourceToSetStatus: "example.com v1 apps app",
			},
			args: []string{"--output=table"},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			f := newFixture(t, tc.env, readyDeployment("api"))
			err := f.command(tc.args...)
			require.Error(t, err)
			switch expected := tc.expectedErr.(type) {
			case nil:
			case *object.MalformedResourceSpecError:
				var malformed *object.MalformedResourceSpecError
				assert.ErrorAs(t, err, &malformed)
			default:
				assert.ErrorIs(t, err, expected)
			}
			assert.Equal(t, 0, f.clientsCalls)
			assert.Empty(t, f.patches())
		})
	}
}

func TestProvisionMissingResource(t *testing.T) {
	env := map[string]string{
		config.EnvMonitoredResources:  "deployment api, statefulset db",
		config.EnvNamespace:           "test",
		config.EnvResourceToSetStatus: "example.com v1 apps app",
	}
	f := newFixture(t, env, readyDeployment("api"))

	err := f.command()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")

	// Only the in progress condition was published.
	require.Len(t, f.patches(), 1)
	conditions := f.conditions(t)
	require.Len(t, conditions, 2)
	assert.Equal(t, "In Progress", conditions[1].(map[string]interface{})["type"])
}
