// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package polling

import (
	"context"
	"time"

	"k8s.io/utils/clock"
	"sigs.k8s.io/status-provisioner/pkg/condition"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/aggregator"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/engine"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/statusreaders"
)

// NewStatusPoller creates a new StatusPoller that reads everything it
// checks through the given ClusterReader.
func NewStatusPoller(reader clusterreader.ClusterReader, options Options) *StatusPoller {
	options.setDefaults()

	poller := &engine.Poller{
		Interval: options.PollInterval,
		Clock:    options.Clock,
	}
	builder := &condition.Builder{
		Reason:         options.ConditionReason,
		SuccessfulType: options.SuccessfulConditionType,
		Clock:          options.Clock,
	}

	return &StatusPoller{
		builder: builder,
		aggregator: &aggregator.Aggregator{
			Resources:       statusreaders.NewResourceStatusReader(reader),
			CustomResources: statusreaders.NewCustomResourceStatusReader(reader, poller),
			IntegrationTests: statusreaders.NewIntegrationTestsStatusReader(reader, poller,
				options.IntegrationTestsConditionReason, options.IntegrationTestsSuccessfulConditionType),
			Poller:                  poller,
			Builder:                 builder,
			FailedType:              options.FailedConditionType,
			ResourceTimeout:         options.ResourceTimeout,
			CustomResourceTimeout:   options.CustomResourceTimeout,
			IntegrationTestsTimeout: options.IntegrationTestsTimeout,
			Parallelism:             options.Parallelism,
		},
	}
}

// StatusPoller computes the readiness condition of a set of resources.
type StatusPoller struct {
	builder    *condition.Builder
	aggregator *aggregator.Aggregator
}

// InProgress returns the condition published while the poller is
// running.
func (s *StatusPoller) InProgress() condition.Condition {
	return s.builder.Condition(condition.InProgressType, condition.InProgressMessage)
}

// Poll waits for all the resources in the input to become ready, or for
// their timeouts to elapse, and returns the aggregated condition. It
// blocks until then, or until the context is cancelled.
func (s *StatusPoller) Poll(ctx context.Context, in aggregator.Input) (condition.Condition, error) {
	return s.aggregator.Aggregate(ctx, in)
}

// Options contains the different parameters that can be used to adjust the
// behavior of the StatusPoller.
type Options struct {
	// ConditionReason is the reason of the published condition.
	ConditionReason string
	// SuccessfulConditionType is the condition type published when
	// everything is ready.
	SuccessfulConditionType string
	// FailedConditionType is the condition type published when anything
	// is not ready.
	FailedConditionType string

	IntegrationTestsConditionReason         string
	IntegrationTestsSuccessfulConditionType string

	ResourceTimeout         time.Duration
	CustomResourceTimeout   time.Duration
	IntegrationTestsTimeout time.Duration

	// PollInterval defines how long to wait between two checks of the
	// same resource.
	PollInterval time.Duration

	// Parallelism is the number of resources checked at the same time.
	Parallelism int

	Clock clock.Clock
}

func (o *Options) setDefaults() {
	if o.ConditionReason == "" {
		o.ConditionReason = condition.DefaultReason
	}
	if o.SuccessfulConditionType == "" {
		o.SuccessfulConditionType = condition.SuccessfulType
	}
	if o.FailedConditionType == "" {
		o.FailedConditionType = condition.FailedType
	}
	if o.IntegrationTestsConditionReason == "" {
		o.IntegrationTestsConditionReason = condition.IntegrationTestsReason
	}
	if o.IntegrationTestsSuccessfulConditionType == "" {
		o.IntegrationTestsSuccessfulConditionType = condition.ReadyType
	}
	if o.PollInterval <= 0 {
		o.PollInterval = engine.DefaultPollInterval
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
}
