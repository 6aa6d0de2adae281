// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

// Package yaml provides a printer that outputs the result of a run as a
// yaml document with the same fields as the json printer.
package yaml

import (
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"sigs.k8s.io/status-provisioner/pkg/printers/printer"
	"sigs.k8s.io/yaml"
)

func NewPrinter(ioStreams genericclioptions.IOStreams) printer.Printer {
	return &yamlPrinter{
		ioStreams: ioStreams,
	}
}

type yamlPrinter struct {
	ioStreams genericclioptions.IOStreams
}

func (p *yamlPrinter) Print(result printer.Result) error {
	b, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = p.ioStreams.Out.Write(b)
	return err
}
