// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/condition"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/engine"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// ResourceReader reports whether a workload is ready right now.
type ResourceReader interface {
	IsReady(ctx context.Context, resource object.MonitoredResource) (bool, error)
}

// CustomResourceReader waits for a custom resource to reach its success
// value and returns an empty message on success.
type CustomResourceReader interface {
	Poll(ctx context.Context, cr object.MonitoredCustomResource, timeout time.Duration) (string, error)
}

// IntegrationTestsReader waits for the integration tests to finish and
// returns an empty message if they passed.
type IntegrationTestsReader interface {
	Poll(ctx context.Context, ref object.CustomResourceRef, timeout time.Duration) (string, error)
}

// Input is the set of things to check in one aggregation.
type Input struct {
	Resources       []object.MonitoredResource
	CustomResources []object.MonitoredCustomResource
	// IntegrationTests is the resource the integration tests report on.
	// Nil if there are no integration tests.
	IntegrationTests *object.CustomResourceRef
}

// Aggregator checks every input and folds the results into a single
// condition.
type Aggregator struct {
	Resources        ResourceReader
	CustomResources  CustomResourceReader
	IntegrationTests IntegrationTestsReader

	Poller  *engine.Poller
	Builder *condition.Builder
	// FailedType is the condition type used when anything is not ready.
	FailedType string

	ResourceTimeout         time.Duration
	CustomResourceTimeout   time.Duration
	IntegrationTestsTimeout time.Duration

	// Parallelism is the number of resources and custom resources checked
	// at the same time. Values below 2 check them one after another.
	Parallelism int
}

// Aggregate checks the resources, then the custom resources, then the
// integration tests, and returns the resulting condition. The messages
// of everything that is not ready are joined in input order. Errors
// talking to the cluster abort the aggregation; timeouts do not.
func (a *Aggregator) Aggregate(ctx context.Context, in Input) (condition.Condition, error) {
	messages, err := a.checkAll(ctx, in)
	if err != nil {
		return condition.Condition{}, err
	}

	if in.IntegrationTests != nil {
		msg, err := a.IntegrationTests.Poll(ctx, *in.IntegrationTests, a.IntegrationTestsTimeout)
		if err != nil {
			return condition.Condition{}, err
		}
		messages = append(messages, msg)
	}

	var failures []string
	for _, msg := range messages {
		if msg != "" {
			failures = append(failures, msg)
		}
	}
	if len(failures) > 0 {
		return a.Builder.Condition(a.FailedType, strings.Join(failures, " ")), nil
	}

	msg := condition.SuccessMessage
	if in.IntegrationTests != nil {
		msg += " " + condition.IntegrationTestsSuccessMessage
	}
	return a.Builder.Condition(a.Builder.SuccessfulType, msg), nil
}

// checkAll returns one message per resource and custom resource, in
// input order.
func (a *Aggregator) checkAll(ctx context.Context, in Input) ([]string, error) {
	total := len(in.Resources) + len(in.CustomResources)
	check := func(ctx context.Context, i int) (string, error) {
		if i < len(in.Resources) {
			return a.checkResource(ctx, in.Resources[i])
		}
		cr := in.CustomResources[i-len(in.Resources)]
		return a.CustomResources.Poll(ctx, cr, a.CustomResourceTimeout)
	}

	messages := make([]string, total)
	if a.Parallelism < 2 {
		for i := 0; i < total; i++ {
			msg, err := check(ctx, i)
			if err != nil {
				return nil, err
			}
			messages[i] = msg
		}
		return messages, nil
	}

	// Every piece writes only its own slot. The first error cancels the
	// pieces still running.
	errs := make([]error, total)
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	workqueue.ParallelizeUntil(workCtx, a.Parallelism, total, func(i int) {
		msg, err := check(workCtx, i)
		if err != nil {
			errs[i] = err
			cancel()
			return
		}
		messages[i] = msg
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := firstError(errs); err != nil {
		return nil, err
	}
	return messages, nil
}

func (a *Aggregator) checkResource(ctx context.Context, resource object.MonitoredResource) (string, error) {
	klog.Infof("Processing [%s] resource", resource)
	return a.Poller.PollUntilReady(ctx, a.ResourceTimeout, func(ctx context.Context) (bool, error) {
		return a.Resources.IsReady(ctx, resource)
	}, fmt.Sprintf("[%s] component is not ready.", resource.Name))
}

// firstError returns the first error in input order, preferring errors
// that are not caused by the cancellation of the other pieces.
func firstError(errs []error) error {
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if canceled == nil {
			canceled = err
		}
	}
	return canceled
}
