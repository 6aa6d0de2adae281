// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/template"

	"k8s.io/klog/v2"
	cmdutil "k8s.io/kubectl/pkg/cmd/util"
	"sigs.k8s.io/status-provisioner/pkg/config"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

const (
	DefaultErrorExitCode = 1
	ConfigErrorExitCode  = 2
)

var errorMsgForType map[reflect.Type]string
var statusCodeForType map[reflect.Type]int

//nolint:gochecknoinits
func init() {
	errorMsgForType = make(map[reflect.Type]string)
	errorMsgForType[reflect.TypeOf(object.MalformedResourceSpecError{})] = `
Malformed resource description [{{ .err.Spec }}].

A resource description must contain {{ .err.Expected }},
separated by whitespace.
`

	errorMsgForType[reflect.TypeOf(object.UnsupportedResourceKindError{})] = `
The type [{{ .err.Kind }}] is not supported yet.

Supported types are: {{ .kinds }}.
`

	errorMsgForType[reflect.TypeOf(config.InvalidValueError{})] = `
Invalid value "{{ .err.Value }}" for {{ .err.Name }}: {{ .err.Err }}.

Run "{{ .cmdNameBase }} --help" for the available settings.
`

	statusCodeForType = make(map[reflect.Type]int)
	statusCodeForType[reflect.TypeOf(config.InvalidValueError{})] = ConfigErrorExitCode
}

// CheckErr looks up the appropriate error message and exit status for known
// errors. It will print the information to the provided io.Writer. If we
// don't know the error, it delegates to the error handling in cmdutil.
// Known errors are also found when they are wrapped.
func CheckErr(w io.Writer, err error, cmdNameBase string) {
	if err == nil {
		return
	}
	klog.Flush()

	errText, found := textForError(err, cmdNameBase)
	if found {
		exitStatus := findErrExitCode(err)
		if len(errText) > 0 {
			if !strings.HasSuffix(errText, "\n") {
				errText += "\n"
			}
			fmt.Fprint(w, errText)
		}
		os.Exit(exitStatus)
	}

	cmdutil.CheckErr(err)
}

// textForError looks up the error message based on the type of the error.
func textForError(baseErr error, cmdNameBase string) (string, bool) {
	knownErr, errType, found := findKnownErr(baseErr)
	if !found {
		return "", false
	}
	tmplText, found := errorMsgForType[errType]
	if !found {
		return "", false
	}

	tmpl, err := template.New("errMsg").Parse(tmplText)
	if err != nil {
		// Just return false here instead of the error. It will just
		// mean a less informative error message and we rather show the
		// original error.
		return "", false
	}
	kinds := make([]string, 0, len(object.Kinds))
	for _, k := range object.Kinds {
		kinds = append(kinds, string(k))
	}
	var b bytes.Buffer
	err = tmpl.Execute(&b, map[string]interface{}{
		"cmdNameBase": cmdNameBase,
		"err":         knownErr,
		"kinds":       strings.Join(kinds, ", "),
	})
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(b.String()), true
}

// findKnownErr walks the chain of wrapped errors and returns the first
// one that has a message registered, together with its type.
func findKnownErr(err error) (error, reflect.Type, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		errType, found := findErrType(err)
		if !found {
			continue
		}
		if _, found := errorMsgForType[errType]; found {
			return err, errType, true
		}
	}
	return nil, nil, false
}

// findErrType finds the type of the error. It returns the real type in the
// event the error is actually a pointer to a type.
func findErrType(err error) (reflect.Type, bool) {
	switch reflect.ValueOf(err).Kind() {
	case reflect.Ptr:
		// If the value of the interface is a pointer, we use the type
		// of the real value.
		return reflect.ValueOf(err).Elem().Type(), true
	case reflect.Struct:
		return reflect.TypeOf(err), true
	default:
		return nil, false
	}
}

// findErrExitCode looks up if there is a defined error code for the provided
// error type.
func findErrExitCode(err error) int {
	_, errType, found := findKnownErr(err)
	if !found {
		return DefaultErrorExitCode
	}
	if exitStatus, found := statusCodeForType[errType]; found {
		return exitStatus
	}
	return DefaultErrorExitCode
}
