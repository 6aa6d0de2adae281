// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/component-base/cli"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/status-provisioner/cmd/provision"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/errors"
	"sigs.k8s.io/status-provisioner/pkg/util/factory"

	// This is here rather than in the libraries because of
	// https://github.com/kubernetes-sigs/kustomize/issues/2060
	_ "k8s.io/client-go/plugin/pkg/client/auth"
)

const cmdNameBase = "status-provisioner"

func main() {
	options, err := config.NewOptions(os.Getenv)
	errors.CheckErr(os.Stderr, err, cmdNameBase)
	insecure, err := config.BoolEnv(os.Getenv, config.EnvInsecureSkipTLSVerify)
	errors.CheckErr(os.Stderr, err, cmdNameBase)

	// configure kubectl dependencies and flags, seeded from the
	// environment
	kubeConfigFlags := genericclioptions.NewConfigFlags(true)
	namespace := os.Getenv(config.EnvNamespace)
	kubeConfigFlags.Namespace = &namespace
	kubeConfigFlags.Insecure = &insecure

	ioStreams := genericclioptions.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}

	ctx := ctrl.SetupSignalHandler()
	cmd := provision.Command(ctx, kubeConfigFlags, options, factory.NewClientsFunc(kubeConfigFlags), ioStreams)

	flags := cmd.PersistentFlags()
	kubeConfigFlags.AddFlags(flags)
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	// Known errors get their own message and exit code.
	runE := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		errors.CheckErr(ioStreams.ErrOut, runE(c, args), cmdNameBase)
		return nil
	}

	code := cli.Run(cmd)
	os.Exit(code)
}
