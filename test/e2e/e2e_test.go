// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive
	v1 "k8s.io/api/core/v1"
	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/status-provisioner/cmd/provision"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/util/factory"
	"sigs.k8s.io/status-provisioner/test/e2e/e2eutil"
)

// Parse optional logging flags
// Ex: ginkgo ./test/e2e/... -- -v=5
// Allow init for e2e test (not imported by external code)
// nolint:gochecknoinits
func init() {
	klog.InitFlags(nil)
	klog.SetOutput(GinkgoWriter)
}

var defaultTestTimeout = 2 * time.Minute
var defaultBeforeTestTimeout = 30 * time.Second
var defaultAfterTestTimeout = 30 * time.Second

var clients *factory.Clients
var crdClient apiextensionsclient.Interface

var _ = BeforeSuite(func() {
	cfg, err := ctrl.GetConfig()
	if err != nil {
		Skip("no cluster available: " + err.Error())
	}

	clients, err = factory.NewClientsForConfig(cfg)
	Expect(err).NotTo(HaveOccurred())
	crdClient = apiextensionsclient.NewForConfigOrDie(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), defaultBeforeTestTimeout)
	defer cancel()
	e2eutil.CreateAppCRD(ctx, crdClient)
	Expect(ctx.Err()).To(BeNil(), "BeforeSuite context cancelled or timed out")
})

var _ = AfterSuite(func() {
	if crdClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultAfterTestTimeout)
	defer cancel()
	e2eutil.DeleteAppCRD(ctx, crdClient)
	Expect(ctx.Err()).To(BeNil(), "AfterSuite context cancelled or timed out")
})

var _ = Describe("StatusProvisioner", func() {

	Context("Provision", func() {
		var namespace *v1.Namespace
		var ctx context.Context
		var cancel context.CancelFunc

		BeforeEach(func() {
			ctx, cancel = context.WithTimeout(context.Background(), defaultTestTimeout)
			namespace = e2eutil.CreateRandomNamespace(ctx, clients.Client)
		})

		AfterEach(func() {
			Expect(ctx.Err()).To(BeNil(), "test context cancelled or timed out")
			cancel()
			// new timeout for cleanup
			ctx, cancel = context.WithTimeout(context.Background(), defaultAfterTestTimeout)
			defer cancel()
			e2eutil.DeleteNamespace(ctx, clients.Client, namespace)
		})

		run := func(env map[string]string) error {
			env[config.EnvNamespace] = namespace.Name
			env[config.EnvPollInterval] = "1s"
			options, err := config.NewOptions(func(name string) string {
				return env[name]
			})
			Expect(err).NotTo(HaveOccurred())

			configFlags := genericclioptions.NewConfigFlags(false)
			configFlags.Namespace = &namespace.Name
			clientsFunc := func(context.Context) (*factory.Clients, error) {
				return clients, nil
			}
			cmd := provision.Command(ctx, configFlags, options, clientsFunc, genericclioptions.NewTestIOStreamsDiscard())
			cmd.SetArgs([]string{})
			return cmd.Execute()
		}

		It("publishes success once everything is ready", func() {
			e2eutil.CreateIdleDeployment(ctx, clients.Client, namespace.Name, "api")
			e2eutil.CreateApp(ctx, clients.DynamicClient, namespace.Name, "database", map[string]interface{}{
				"phase": "Running",
			})
			e2eutil.CreateApp(ctx, clients.DynamicClient, namespace.Name, "target", nil)

			err := run(map[string]string{
				config.EnvMonitoredResources:       "deployment api",
				config.EnvMonitoredCustomResources: e2eutil.AppRef("database") + " status.phase Running Failed",
				config.EnvResourceToSetStatus:      e2eutil.AppRef("target"),
				config.EnvPodReadinessTimeout:      "60",
				config.EnvCRProcessingTimeout:      "10",
			})
			Expect(err).NotTo(HaveOccurred())

			conditions := e2eutil.AppConditions(ctx, clients.DynamicClient, namespace.Name, "target")
			Expect(conditions).To(HaveLen(1))
			Expect(conditions[0]).To(HaveKeyWithValue("type", "Successful"))
			Expect(conditions[0]).To(HaveKeyWithValue("status", "True"))
			Expect(conditions[0]).To(HaveKeyWithValue("reason", "ServiceReadinessStatus"))
			Expect(conditions[0]).To(HaveKeyWithValue("message", "All components are in ready status."))
		})

		It("publishes failure for a failed custom resource", func() {
			e2eutil.CreateApp(ctx, clients.DynamicClient, namespace.Name, "database", map[string]interface{}{
				"phase": "Failed",
			})
			e2eutil.CreateApp(ctx, clients.DynamicClient, namespace.Name, "target", map[string]interface{}{
				"conditions": []interface{}{
					map[string]interface{}{
						"type":    "Failed",
						"status":  "False",
						"message": "ServiceReadinessStatus",
					},
				},
			})

			err := run(map[string]string{
				config.EnvMonitoredCustomResources: e2eutil.AppRef("database") + " status.phase Running Failed",
				config.EnvResourceToSetStatus:      e2eutil.AppRef("target"),
				config.EnvCRProcessingTimeout:      "10",
			})
			Expect(err).NotTo(HaveOccurred())

			conditions := e2eutil.AppConditions(ctx, clients.DynamicClient, namespace.Name, "target")
			Expect(conditions).To(HaveLen(1))
			Expect(conditions[0]).To(HaveKeyWithValue("type", "Failed"))
			Expect(conditions[0]).To(HaveKeyWithValue("message",
				"Processing status of ["+e2eutil.AppGroup+"/v1 apps database] custom resource is Failed. "+
					"For more details, check custom resource status."))
		})

		It("fails for a missing resource", func() {
			e2eutil.CreateApp(ctx, clients.DynamicClient, namespace.Name, "target", nil)

			err := run(map[string]string{
				config.EnvMonitoredResources:  "statefulset missing",
				config.EnvResourceToSetStatus: e2eutil.AppRef("target"),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("missing"))
		})
	})
})
