// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// CachingRESTClientGetter caches the REST config so every client created
// from it talks to the cluster with the same settings, even if the
// kubeconfig changes while the run is in progress.
type CachingRESTClientGetter struct {
	mx       sync.Mutex
	Delegate genericclioptions.RESTClientGetter

	config *rest.Config
}

var _ genericclioptions.RESTClientGetter = &CachingRESTClientGetter{}

// ToRESTConfig returns a copy of the cached config, so callers may
// modify it.
func (c *CachingRESTClientGetter) ToRESTConfig() (*rest.Config, error) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.config == nil {
		config, err := c.Delegate.ToRESTConfig()
		if err != nil {
			return nil, err
		}
		c.config = config
	}
	return rest.CopyConfig(c.config), nil
}

func (c *CachingRESTClientGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	return c.Delegate.ToDiscoveryClient()
}

func (c *CachingRESTClientGetter) ToRESTMapper() (meta.RESTMapper, error) {
	return c.Delegate.ToRESTMapper()
}

func (c *CachingRESTClientGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	return c.Delegate.ToRawKubeConfigLoader()
}
