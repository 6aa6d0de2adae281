// Copyright 2022 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package flowcontrol

import (
	"context"
	"fmt"
	"net/http"

	flowcontrolapi "k8s.io/api/flowcontrol/v1beta2"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

const pingPath = "/livez/ping"

// IsEnabled checks whether the server uses API Priority and Fairness. The
// server marks every response it classified with the UID of the matched
// flow schema, so a single cheap request is enough to tell.
func IsEnabled(ctx context.Context, config *rest.Config) (bool, error) {
	cfg := rest.CopyConfig(config)
	cfg.GroupVersion = &schema.GroupVersion{}
	cfg.NegotiatedSerializer = scheme.Codecs.WithoutConversion()
	client, err := rest.RESTClientFor(cfg)
	if err != nil {
		return false, fmt.Errorf("error creating client: %w", err)
	}

	// The result of a request does not expose the response headers, so
	// only the URL is taken from the client.
	url := client.Get().AbsPath(pingPath).URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return false, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := client.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("error calling %s: %w", pingPath, err)
	}
	defer resp.Body.Close()

	return resp.Header.Get(flowcontrolapi.ResponseHeaderMatchedFlowSchemaUID) != "", nil
}
