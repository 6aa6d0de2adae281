// Copyright 2019 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

// Package kstatus contains libraries for computing the readiness of
// Kubernetes resource objects and reporting it as a condition.
//
// polling
// Poll the cluster for the state of the specified workloads and custom
// resources and fold the results into a single condition. Every resource
// is polled until it is ready or its timeout elapses, so a run always
// produces a condition unless talking to the cluster fails.
//
// publisher
// Write a condition onto the status of a custom resource, replacing the
// condition of the same family if there is one.
//
// A common use case for this would be to report, on a custom resource
// representing an installation, whether everything it installed became
// ready.
package kstatus
