// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/printers"
	"sigs.k8s.io/status-provisioner/pkg/printers/printer"
	"sigs.k8s.io/status-provisioner/pkg/util/factory"
)

func GetProvisionRunner(ctx context.Context, configFlags *genericclioptions.ConfigFlags, options *config.Options,
	clientsFunc factory.ClientsFunc, ioStreams genericclioptions.IOStreams) *ProvisionRunner {
	r := &ProvisionRunner{
		ctx:         ctx,
		configFlags: configFlags,
		options:     options,
		clientsFunc: clientsFunc,
		ioStreams:   ioStreams,
	}
	c := &cobra.Command{
		Use:   "status-provisioner",
		Short: "Wait for workloads and custom resources to become ready and report it as a condition",
		Long: `Wait for workloads and custom resources to become ready and report it as a condition.

The condition is written onto the status of a custom resource, once with
the "In Progress" type when the run starts and once with the outcome.`,
		Args: cobra.NoArgs,
		RunE: r.runE,
		// We silence error reporting from Cobra here since errors are
		// reported with their own messages by the caller.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	options.AddFlags(c.Flags())

	r.command = c
	return r
}

func Command(ctx context.Context, configFlags *genericclioptions.ConfigFlags, options *config.Options,
	clientsFunc factory.ClientsFunc, ioStreams genericclioptions.IOStreams) *cobra.Command {
	return GetProvisionRunner(ctx, configFlags, options, clientsFunc, ioStreams).command
}

// ProvisionRunner captures the parameters for the command and contains
// the run function.
type ProvisionRunner struct {
	ctx         context.Context
	command     *cobra.Command
	ioStreams   genericclioptions.IOStreams
	configFlags *genericclioptions.ConfigFlags
	options     *config.Options
	clientsFunc factory.ClientsFunc
}

// runE publishes the in progress condition, waits for everything to
// become ready and publishes the outcome. Nothing is done if there is
// nothing to monitor or nowhere to report to.
func (r *ProvisionRunner) runE(_ *cobra.Command, _ []string) error {
	namespace := ""
	if r.configFlags.Namespace != nil {
		namespace = *r.configFlags.Namespace
	}
	if !r.options.ShouldRun(namespace) {
		return nil
	}
	if !printers.ValidatePrinterType(r.options.Output) {
		return fmt.Errorf("unknown output format %q, must be one of %v",
			r.options.Output, printers.SupportedPrinters())
	}

	cfg, err := r.options.ToConfig(namespace)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Monitoring %d resource(s) and %d custom resource(s) in namespace %q, reporting to [%s]",
		len(cfg.Input.Resources), len(cfg.Input.CustomResources), cfg.Namespace, cfg.Target)

	clients, err := r.clientsFunc(r.ctx)
	if err != nil {
		return errors.WrapPrefix(err, "error creating clients", 1)
	}
	statusPoller := clients.NewStatusPoller(cfg)
	publisher := clients.NewPublisher(cfg)

	if err := publisher.Publish(r.ctx, statusPoller.InProgress()); err != nil {
		return err
	}

	c, err := statusPoller.Poll(r.ctx, cfg.Input)
	if err != nil {
		return err
	}
	if err := publisher.Publish(r.ctx, c); err != nil {
		return err
	}
	klog.Infof("[%s] condition is set on [%s] custom resource: %s", c.Type, cfg.Target, c.Message)

	return printers.GetPrinter(cfg.Output, r.ioStreams).Print(printer.Result{
		Namespace: cfg.Namespace,
		Resource:  cfg.Target.String(),
		Condition: c,
	})
}
