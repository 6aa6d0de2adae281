// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"context"
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/publisher"
)

// Clients holds the API clients of a run.
type Clients struct {
	Client        kubernetes.Interface
	DynamicClient dynamic.Interface
	// RESTClient reads custom resources as raw JSON. Optional.
	RESTClient rest.Interface
}

// ClientsFunc creates the API clients of a run.
type ClientsFunc func(ctx context.Context) (*Clients, error)

// NewClientsFunc returns a ClientsFunc creating the clients from the
// given flags. Client-side throttling is configured first, so it is
// only checked when a run actually talks to the cluster.
func NewClientsFunc(configFlags *genericclioptions.ConfigFlags) ClientsFunc {
	return func(ctx context.Context) (*Clients, error) {
		if err := ConfigureThrottling(ctx, configFlags); err != nil {
			return nil, err
		}
		return NewClients(&CachingRESTClientGetter{Delegate: configFlags})
	}
}

// NewClients creates the clients from the REST config of the getter.
func NewClients(getter genericclioptions.RESTClientGetter) (*Clients, error) {
	restConfig, err := getter.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("error getting RESTConfig: %w", err)
	}
	return NewClientsForConfig(restConfig)
}

// NewClientsForConfig creates the typed, the dynamic and the raw REST
// client from a REST config.
func NewClientsForConfig(restConfig *rest.Config) (*Clients, error) {
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating dynamic client: %w", err)
	}

	rawConfig := rest.CopyConfig(restConfig)
	rawConfig.NegotiatedSerializer = scheme.Codecs.WithoutConversion()
	restClient, err := rest.UnversionedRESTClientFor(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating REST client: %w", err)
	}

	return &Clients{
		Client:        client,
		DynamicClient: dynamicClient,
		RESTClient:    restClient,
	}, nil
}

// NewClusterReader creates a ClusterReader for the namespace of the run.
func (c *Clients) NewClusterReader(cfg *config.Config) clusterreader.ClusterReader {
	reader := clusterreader.NewDirectClusterReader(c.Client, c.DynamicClient, cfg.Namespace)
	reader.RESTClient = c.RESTClient
	return reader
}

// NewStatusPoller creates a StatusPoller for the run.
func (c *Clients) NewStatusPoller(cfg *config.Config) *polling.StatusPoller {
	return polling.NewStatusPoller(c.NewClusterReader(cfg), cfg.Polling)
}

// NewPublisher creates a Publisher writing onto the target resource of
// the run.
func (c *Clients) NewPublisher(cfg *config.Config) *publisher.Publisher {
	return publisher.NewPublisher(c.NewClusterReader(cfg), c.DynamicClient, cfg.Namespace, cfg.Target, cfg.AsField)
}
