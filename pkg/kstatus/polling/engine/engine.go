// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"
)

// DefaultPollInterval is the time the Poller waits between two checks.
const DefaultPollInterval = 5 * time.Second

// Poller repeatedly runs a check until it reports done or a timeout
// elapses. Each call to Poll is independent, so a single Poller can be
// shared by several goroutines.
//
// Timeouts are not composed: every call to Poll gets its own timeout.
// An overall deadline or stop signal should be set on the context, which
// interrupts the wait between two checks.
type Poller struct {
	// Interval defines how long the Poller waits after an unsuccessful
	// check before it checks again.
	Interval time.Duration

	// Clock is used for the deadline and for waiting. Tests can
	// replace it with a fake clock.
	Clock clock.Clock
}

func NewPoller(interval time.Duration) *Poller {
	return &Poller{
		Interval: interval,
		Clock:    clock.RealClock{},
	}
}

// Poll runs condition until it returns true, returns an error, or the
// timeout elapses. It returns true only if the condition was met.
//
// The condition is always checked at least once, even for a timeout of
// zero or less. Poll returns right after the first successful check and
// never waits after it. An error from the condition is returned
// immediately without retrying. If the context is cancelled while
// waiting, the context error is returned.
func (p *Poller) Poll(ctx context.Context, timeout time.Duration, condition wait.ConditionWithContextFunc) (bool, error) {
	c := p.clock()
	deadline := c.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		done, err := condition(ctx)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		// Checking again would only happen after the deadline.
		if !c.Now().Add(p.Interval).Before(deadline) {
			klog.V(3).Infof("condition not met after %d attempt(s) within %s", attempt, timeout)
			return false, nil
		}
		klog.V(4).Infof("condition not met on attempt %d, checking again in %s", attempt, p.Interval)
		if err := p.wait(ctx, c); err != nil {
			return false, err
		}
	}
}

// PollUntilReady polls condition and maps the outcome onto a status
// message: empty if the condition was met, notReadyMessage if the
// timeout elapsed first.
func (p *Poller) PollUntilReady(ctx context.Context, timeout time.Duration, condition wait.ConditionWithContextFunc, notReadyMessage string) (string, error) {
	done, err := p.Poll(ctx, timeout, condition)
	if err != nil {
		return "", err
	}
	if done {
		return "", nil
	}
	return notReadyMessage, nil
}

func (p *Poller) wait(ctx context.Context, c clock.Clock) error {
	timer := c.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

func (p *Poller) clock() clock.Clock {
	if p.Clock == nil {
		return clock.RealClock{}
	}
	return p.Clock
}
