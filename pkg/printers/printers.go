// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package printers

import (
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"sigs.k8s.io/status-provisioner/pkg/printers/json"
	"sigs.k8s.io/status-provisioner/pkg/printers/none"
	"sigs.k8s.io/status-provisioner/pkg/printers/printer"
	"sigs.k8s.io/status-provisioner/pkg/printers/yaml"
)

const (
	NonePrinter = "none"
	JSONPrinter = "json"
	YAMLPrinter = "yaml"
)

func GetPrinter(printerType string, ioStreams genericclioptions.IOStreams) printer.Printer {
	switch printerType {
	case JSONPrinter:
		return json.NewPrinter(ioStreams)
	case YAMLPrinter:
		return yaml.NewPrinter(ioStreams)
	default:
		return none.NewPrinter()
	}
}

func SupportedPrinters() []string {
	return []string{NonePrinter, JSONPrinter, YAMLPrinter}
}

func DefaultPrinter() string {
	return NonePrinter
}

func ValidatePrinterType(printerType string) bool {
	for _, p := range SupportedPrinters() {
		if printerType == p {
			return true
		}
	}
	return false
}
