// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

// Package none provides a printer that prints nothing. The outcome of a
// run is still logged and written onto the custom resource.
package none

import (
	"sigs.k8s.io/status-provisioner/pkg/printers/printer"
)

func NewPrinter() printer.Printer {
	return nonePrinter{}
}

type nonePrinter struct{}

func (nonePrinter) Print(printer.Result) error {
	return nil
}
