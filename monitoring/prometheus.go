// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package monitoring

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var metricLabels = []string{"primitive", "api", "params"}

// PrometheusClient is a Client counting operations, processed bytes and
// failures per primitive, API function and parameters.
type PrometheusClient struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

var _ Client = (*PrometheusClient)(nil)

// NewPrometheusClient registers the counters with reg. Counters that are
// already registered with reg are reused, so that several clients may share
// one registry.
func NewPrometheusClient(reg prometheus.Registerer) (*PrometheusClient, error) {
	operations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spx_operations_total",
		Help: "Number of successful operations",
	}, metricLabels))
	if err != nil {
		return nil, fmt.Errorf("monitoring.NewPrometheusClient: %w", err)
	}
	bytes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spx_operation_bytes_total",
		Help: "Number of message bytes processed by successful operations",
	}, metricLabels))
	if err != nil {
		return nil, fmt.Errorf("monitoring.NewPrometheusClient: %w", err)
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spx_operation_failures_total",
		Help: "Number of failed operations",
	}, metricLabels))
	if err != nil {
		return nil, fmt.Errorf("monitoring.NewPrometheusClient: %w", err)
	}
	return &PrometheusClient{
		operations: operations,
		bytes:      bytes,
		failures:   failures,
	}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// NewLogger returns a Logger bound to the label values of context.
func (c *PrometheusClient) NewLogger(context *Context) (Logger, error) {
	if context == nil {
		return nil, fmt.Errorf("monitoring.NewLogger: context must not be nil")
	}
	labels := prometheus.Labels{
		"primitive": context.Primitive,
		"api":       context.APIFunction,
		"params":    context.Parameters,
	}
	return &prometheusLogger{
		operations: c.operations.With(labels),
		bytes:      c.bytes.With(labels),
		failures:   c.failures.With(labels),
	}, nil
}

type prometheusLogger struct {
	operations prometheus.Counter
	bytes      prometheus.Counter
	failures   prometheus.Counter
}

func (l *prometheusLogger) Log(numBytes int) {
	l.operations.Inc()
	l.bytes.Add(float64(numBytes))
}

func (l *prometheusLogger) LogFailure() {
	l.failures.Inc()
}
