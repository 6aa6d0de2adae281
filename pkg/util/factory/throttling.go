// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"context"
	"fmt"
	"time"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/flowcontrol"
)

const flowControlCheckTimeout = 5 * time.Second

// ConfigureThrottling disables client-side throttling if the server
// throttles requests itself. It must run before any client is created
// from the flags, since it changes the configs they produce.
func ConfigureThrottling(ctx context.Context, configFlags *genericclioptions.ConfigFlags) error {
	ctx, cancel := context.WithTimeout(ctx, flowControlCheckTimeout)
	defer cancel()

	restConfig, err := configFlags.ToRESTConfig()
	if err != nil {
		return err
	}
	enabled, err := flowcontrol.IsEnabled(ctx, restConfig)
	if err != nil {
		return fmt.Errorf("checking server-side throttling enablement: %w", err)
	}
	if enabled {
		klog.V(3).Infof("Client-side throttling disabled")
		// WrapConfigFn will affect future ToRESTConfig() calls.
		configFlags.WrapConfigFn = func(cfg *rest.Config) *rest.Config {
			cfg.QPS = -1
			cfg.Burst = -1
			return cfg
		}
	}
	return nil
}
