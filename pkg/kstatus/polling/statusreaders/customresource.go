// Copyright 2026 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package statusreaders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spyzhov/ajson"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/clusterreader"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/engine"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// ExtractConditionValue evaluates the JSONPath expression against the
// JSON document and returns the value of the last match in document
// order. Expressions without a leading root selector are evaluated from
// the root, so "status.phase" is the same as "$.status.phase".
//
// The boolean result is false when nothing matches or when the last
// match is not a string, since only strings are compared against the
// success and fail values.
func ExtractConditionValue(data []byte, path string) (string, bool, error) {
	root, err := ajson.Unmarshal(data)
	if err != nil {
		return "", false, fmt.Errorf("error decoding document: %w", err)
	}
	nodes, err := root.JSONPath(normalizePath(path))
	if err != nil {
		return "", false, fmt.Errorf("error evaluating path %q: %w", path, err)
	}
	if len(nodes) == 0 {
		return "", false, nil
	}
	last := lastInDocumentOrder(root, nodes)
	if !last.IsString() {
		return "", false, nil
	}
	value, err := last.GetString()
	if err != nil {
		return "", false, fmt.Errorf("error reading value at path %q: %w", path, err)
	}
	return value, true, nil
}

// lastInDocumentOrder returns the match that starts last in the source.
// ajson visits object members in sorted key order, so the order of the
// matches it returns can differ from the order of the document.
//
// The source of every node is a subslice of the root's source, so the
// difference in capacity is the offset of the node in the document.
func lastInDocumentOrder(root *ajson.Node, nodes []*ajson.Node) *ajson.Node {
	size := cap(root.Source())
	last, lastOffset := nodes[len(nodes)-1], -1
	for _, n := range nodes {
		src := n.Source()
		if src == nil {
			continue
		}
		if offset := size - cap(src); offset >= lastOffset {
			last, lastOffset = n, offset
		}
	}
	return last
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "$"):
		return path
	case strings.HasPrefix(path, "["):
		return "$" + path
	default:
		return "$." + path
	}
}

// CustomResourceStatusReader polls a custom resource until the value
// selected by a JSONPath expression reaches its success or fail value.
type CustomResourceStatusReader struct {
	Reader clusterreader.ClusterReader
	Poller *engine.Poller
}

func NewCustomResourceStatusReader(reader clusterreader.ClusterReader, poller *engine.Poller) *CustomResourceStatusReader {
	return &CustomResourceStatusReader{
		Reader: reader,
		Poller: poller,
	}
}

// Poll returns an empty message once the success value is observed, a
// failure message as soon as the fail value is observed, and a timeout
// message if neither shows up within the timeout. Errors reading the
// resource or evaluating the path are returned as errors.
func (r *CustomResourceStatusReader) Poll(ctx context.Context, cr object.MonitoredCustomResource, timeout time.Duration) (string, error) {
	klog.Infof("Processing [%s] custom resource", cr.Ref)

	failed := false
	done, err := r.Poller.Poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		data, err := r.Reader.GetCustomResourceJSON(ctx, cr.Ref)
		if err != nil {
			return false, fmt.Errorf("error reading custom resource [%s]: %w", cr.Ref, err)
		}
		value, found, err := ExtractConditionValue(data, cr.Path)
		if err != nil {
			return false, fmt.Errorf("error extracting condition of custom resource [%s]: %w", cr.Ref, err)
		}
		if !found {
			klog.V(3).Infof("custom resource [%s]: nothing found at %s", cr.Ref, cr.Path)
			return false, nil
		}
		klog.V(3).Infof("custom resource [%s]: %s is %q", cr.Ref, cr.Path, value)
		if value == cr.SuccessValue {
			return true, nil
		}
		if cr.FailValue != nil && value == *cr.FailValue {
			failed = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return "", err
	}
	switch {
	case !done:
		return fmt.Sprintf("[%s] custom resource does not have successful condition after %d seconds.",
			cr.Ref, seconds(timeout)), nil
	case failed:
		return fmt.Sprintf("Processing status of [%s] custom resource is %s. For more details, check custom resource status.",
			cr.Ref, *cr.FailValue), nil
	default:
		return "", nil
	}
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
