// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"sigs.k8s.io/status-provisioner/pkg/condition"
)

// Result is what a run reports once the condition is published.
type Result struct {
	Namespace string `json:"namespace"`
	// Resource is the custom resource the condition was written to.
	Resource  string              `json:"resource"`
	Condition condition.Condition `json:"condition"`
}

type Printer interface {
	Print(result Result) error
}
