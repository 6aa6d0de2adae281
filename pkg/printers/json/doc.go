// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

// Package json provides a printer that outputs the result of a run as a
// single json object with the following properties:
//   - namespace (string) - The namespace of the run.
//   - resource (string) - The custom resource the condition was written
//     to, as "group/version plural name".
//   - condition (object) - The published condition:
//   - type (string) - The condition type, e.g. "Successful" or "Failed".
//   - status (string) - "True" for the successful type, "False" otherwise.
//   - lastTransitionTime (string) - ISO-8601 format, UTC, milliseconds.
//   - reason (string) - The condition reason.
//   - message (string) - Human readable description of the outcome.
package json
