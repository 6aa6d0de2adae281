// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"sigs.k8s.io/status-provisioner/pkg/printers/printer"
)

func NewPrinter(ioStreams genericclioptions.IOStreams) printer.Printer {
	return &jsonPrinter{
		ioStreams: ioStreams,
	}
}

type jsonPrinter struct {
	ioStreams genericclioptions.IOStreams
}

func (p *jsonPrinter) Print(result printer.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = fmt.Fprintln(p.ioStreams.Out, string(b))
	return err
}
