// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"sigs.k8s.io/status-provisioner/pkg/condition"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/aggregator"
	"sigs.k8s.io/status-provisioner/pkg/kstatus/polling/engine"
	"sigs.k8s.io/status-provisioner/pkg/object"
)

// Environment variables read by NewOptions.
const (
	EnvMonitoredResources                      = "MONITORED_RESOURCES"
	EnvMonitoredCustomResources                = "MONITORED_CUSTOM_RESOURCES"
	EnvNamespace                               = "NAMESPACE"
	EnvResourceToSetStatus                     = "RESOURCE_TO_SET_STATUS"
	EnvTreatStatusAsField                      = "TREAT_STATUS_AS_FIELD"
	EnvPodReadinessTimeout                     = "POD_READINESS_TIMEOUT"
	EnvCRProcessingTimeout                     = "CR_PROCESSING_TIMEOUT"
	EnvConditionReason                         = "CONDITION_REASON"
	EnvSuccessfulConditionType                 = "SUCCESSFUL_CONDITION_TYPE"
	EnvFailedConditionType                     = "FAILED_CONDITION_TYPE"
	EnvIntegrationTestsResource                = "INTEGRATION_TESTS_RESOURCE"
	EnvIntegrationTestsConditionReason         = "INTEGRATION_TESTS_CONDITION_REASON"
	EnvIntegrationTestsSuccessfulConditionType = "INTEGRATION_TESTS_SUCCESSFUL_CONDITION_TYPE"
	EnvIntegrationTestsTimeout                 = "INTEGRATION_TESTS_TIMEOUT"
	EnvPollInterval                            = "POLL_INTERVAL"
	EnvPollParallelism                         = "POLL_PARALLELISM"
	EnvInsecureSkipTLSVerify                   = "INSECURE_SKIP_TLS_VERIFY"
	EnvOutput                                  = "OUTPUT"
)

// DefaultTimeoutSeconds is the default of every timeout.
const DefaultTimeoutSeconds = 300

// Options contains the settings of a run as they are given, before the
// resource descriptions are parsed. Environment variables provide the
// defaults and command line flags override them.
type Options struct {
	MonitoredResources       string
	MonitoredCustomResources string
	// ResourceToSetStatus describes the custom resource the condition is
	// written to, as "group version plural name".
	ResourceToSetStatus string
	TreatStatusAsField  bool

	// Timeouts, in seconds.
	PodReadinessTimeout     int
	CRProcessingTimeout     int
	IntegrationTestsTimeout int

	ConditionReason         string
	SuccessfulConditionType string
	FailedConditionType     string

	IntegrationTestsResource                string
	IntegrationTestsConditionReason         string
	IntegrationTestsSuccessfulConditionType string

	PollInterval time.Duration
	Parallelism  int

	Output string
}

// NewOptions reads the options from the environment through getenv.
// Unset and empty variables take their defaults.
func NewOptions(getenv func(string) string) (*Options, error) {
	o := &Options{
		MonitoredResources:                      getenv(EnvMonitoredResources),
		MonitoredCustomResources:                getenv(EnvMonitoredCustomResources),
		ResourceToSetStatus:                     getenv(EnvResourceToSetStatus),
		ConditionReason:                         stringOr(getenv(EnvConditionReason), condition.DefaultReason),
		SuccessfulConditionType:                 stringOr(getenv(EnvSuccessfulConditionType), condition.SuccessfulType),
		FailedConditionType:                     stringOr(getenv(EnvFailedConditionType), condition.FailedType),
		IntegrationTestsResource:                getenv(EnvIntegrationTestsResource),
		IntegrationTestsConditionReason:         stringOr(getenv(EnvIntegrationTestsConditionReason), condition.IntegrationTestsReason),
		IntegrationTestsSuccessfulConditionType: stringOr(getenv(EnvIntegrationTestsSuccessfulConditionType), condition.ReadyType),
		Output:                                  stringOr(getenv(EnvOutput), "none"),
	}

	var err error
	if o.TreatStatusAsField, err = BoolEnv(getenv, EnvTreatStatusAsField); err != nil {
		return nil, err
	}
	if o.PodReadinessTimeout, err = intEnv(getenv, EnvPodReadinessTimeout, DefaultTimeoutSeconds); err != nil {
		return nil, err
	}
	if o.CRProcessingTimeout, err = intEnv(getenv, EnvCRProcessingTimeout, DefaultTimeoutSeconds); err != nil {
		return nil, err
	}
	if o.IntegrationTestsTimeout, err = intEnv(getenv, EnvIntegrationTestsTimeout, DefaultTimeoutSeconds); err != nil {
		return nil, err
	}
	if o.Parallelism, err = intEnv(getenv, EnvPollParallelism, 1); err != nil {
		return nil, err
	}
	o.PollInterval = engine.DefaultPollInterval
	if v := getenv(EnvPollInterval); v != "" {
		if o.PollInterval, err = time.ParseDuration(v); err != nil {
			return nil, &InvalidValueError{Name: EnvPollInterval, Value: v, Err: err}
		}
	}
	return o, nil
}

// AddFlags registers a flag for every option. The current values are the
// flag defaults, so flags override the environment.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.MonitoredResources, "monitored-resources", o.MonitoredResources,
		"Comma separated workloads to wait for, each as \"kind name\".")
	fs.StringVar(&o.MonitoredCustomResources, "monitored-custom-resources", o.MonitoredCustomResources,
		"Comma separated custom resources to wait for, each as "+
			"\"group version plural name path success-value [fail-value]\".")
	fs.StringVar(&o.ResourceToSetStatus, "resource-to-set-status", o.ResourceToSetStatus,
		"Custom resource the condition is written to, as \"group version plural name\".")
	fs.BoolVar(&o.TreatStatusAsField, "treat-status-as-field", o.TreatStatusAsField,
		"Write the condition to the resource itself instead of its status subresource.")
	fs.IntVar(&o.PodReadinessTimeout, "pod-readiness-timeout", o.PodReadinessTimeout,
		"Seconds to wait for each workload.")
	fs.IntVar(&o.CRProcessingTimeout, "cr-processing-timeout", o.CRProcessingTimeout,
		"Seconds to wait for each custom resource.")
	fs.StringVar(&o.ConditionReason, "condition-reason", o.ConditionReason,
		"Reason of the published condition.")
	fs.StringVar(&o.SuccessfulConditionType, "successful-condition-type", o.SuccessfulConditionType,
		"Condition type published when everything is ready.")
	fs.StringVar(&o.FailedConditionType, "failed-condition-type", o.FailedConditionType,
		"Condition type published when anything is not ready.")
	fs.StringVar(&o.IntegrationTestsResource, "integration-tests-resource", o.IntegrationTestsResource,
		"Custom resource the integration tests report on, as \"group version plural name\".")
	fs.StringVar(&o.IntegrationTestsConditionReason, "integration-tests-condition-reason", o.IntegrationTestsConditionReason,
		"Reason of the condition written by the integration tests.")
	fs.StringVar(&o.IntegrationTestsSuccessfulConditionType, "integration-tests-successful-condition-type",
		o.IntegrationTestsSuccessfulConditionType, "Condition type of passed integration tests.")
	fs.IntVar(&o.IntegrationTestsTimeout, "integration-tests-timeout", o.IntegrationTestsTimeout,
		"Seconds to wait for the integration tests.")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval,
		"Time to wait between two checks of the same resource.")
	fs.IntVar(&o.Parallelism, "parallelism", o.Parallelism,
		"Number of resources checked at the same time.")
	fs.StringVarP(&o.Output, "output", "o", o.Output,
		"Output format of the published condition. One of: none|json|yaml.")
}

// ShouldRun reports whether there is anything to do: something must be
// monitored, and both the namespace and the resource to set the status
// on must be known.
func (o *Options) ShouldRun(namespace string) bool {
	if o.MonitoredResources == "" && o.MonitoredCustomResources == "" {
		klog.Infof("No resources to monitor, nothing to do")
		return false
	}
	if namespace == "" {
		klog.Infof("Namespace is not set, nothing to do")
		return false
	}
	if o.ResourceToSetStatus == "" {
		klog.Infof("Resource to set status on is not set, nothing to do")
		return false
	}
	return true
}

// Config is the validated configuration of a run.
type Config struct {
	Namespace string
	Target    object.CustomResourceRef
	AsField   bool
	Input     aggregator.Input
	Polling   polling.Options
	Output    string
}

// ToConfig parses and validates every resource description. Any
// malformed description fails the whole run before anything is polled.
func (o *Options) ToConfig(namespace string) (*Config, error) {
	target, err := object.ParseCustomResourceRef(o.ResourceToSetStatus)
	if err != nil {
		return nil, err
	}
	resources, err := object.ParseMonitoredResources(o.MonitoredResources)
	if err != nil {
		return nil, err
	}
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	crs, err := object.ParseMonitoredCustomResources(o.MonitoredCustomResources)
	if err != nil {
		return nil, err
	}

	var tests *object.CustomResourceRef
	if o.IntegrationTestsResource != "" {
		ref, err := object.ParseCustomResourceRef(o.IntegrationTestsResource)
		if err != nil {
			return nil, err
		}
		tests = &ref
	}

	for name, v := range map[string]int{
		"pod-readiness-timeout":     o.PodReadinessTimeout,
		"cr-processing-timeout":     o.CRProcessingTimeout,
		"integration-tests-timeout": o.IntegrationTestsTimeout,
	} {
		if v < 0 {
			return nil, &InvalidValueError{Name: name, Value: strconv.Itoa(v), Err: fmt.Errorf("must not be negative")}
		}
	}
	if o.PollInterval <= 0 {
		return nil, &InvalidValueError{Name: "poll-interval", Value: o.PollInterval.String(), Err: fmt.Errorf("must be positive")}
	}
	if o.Parallelism < 1 {
		return nil, &InvalidValueError{Name: "parallelism", Value: strconv.Itoa(o.Parallelism), Err: fmt.Errorf("must be at least 1")}
	}

	return &Config{
		Namespace: namespace,
		Target:    target,
		AsField:   o.TreatStatusAsField,
		Input: aggregator.Input{
			Resources:        resources,
			CustomResources:  crs,
			IntegrationTests: tests,
		},
		Polling: polling.Options{
			ConditionReason:                         o.ConditionReason,
			SuccessfulConditionType:                 o.SuccessfulConditionType,
			FailedConditionType:                     o.FailedConditionType,
			IntegrationTestsConditionReason:         o.IntegrationTestsConditionReason,
			IntegrationTestsSuccessfulConditionType: o.IntegrationTestsSuccessfulConditionType,
			ResourceTimeout:                         seconds(o.PodReadinessTimeout),
			CustomResourceTimeout:                   seconds(o.CRProcessingTimeout),
			IntegrationTestsTimeout:                 seconds(o.IntegrationTestsTimeout),
			PollInterval:                            o.PollInterval,
			Parallelism:                             o.Parallelism,
		},
		Output: o.Output,
	}, nil
}

// InvalidValueError is returned for a setting that cannot be used.
type InvalidValueError struct {
	Name  string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Name, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// BoolEnv reads a boolean environment variable. Unset and empty
// variables are false.
func BoolEnv(getenv func(string) string, name string) (bool, error) {
	v := getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &InvalidValueError{Name: name, Value: v, Err: err}
	}
	return b, nil
}

func intEnv(getenv func(string) string, name string, def int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &InvalidValueError{Name: name, Value: v, Err: err}
	}
	return i, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}
