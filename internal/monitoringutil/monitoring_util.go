// Copyright 2022 Google LLC
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

// Package monitoringutil implements utility functions for monitoring.
package monitoringutil

import (
	"fmt"

	"github.com/spxfault/spx/key"
	"github.com/spxfault/spx/monitoring"
)

// DoNothingLogger is a Logger that does nothing when invoked.
type DoNothingLogger struct{}

var _ monitoring.Logger = (*DoNothingLogger)(nil)

// Log drops a log call.
func (l *DoNothingLogger) Log(int) {}

// LogFailure drops a failure call.
func (l *DoNothingLogger) LogFailure() {}

// DoNothingClient is a Client whose loggers do nothing.
type DoNothingClient struct{}

var _ monitoring.Client = (*DoNothingClient)(nil)

// NewLogger returns a DoNothingLogger.
func (c *DoNothingClient) NewLogger(*monitoring.Context) (monitoring.Logger, error) {
	return &DoNothingLogger{}, nil
}

// NewLogger creates a logger for primitive and apiFunction with the
// parameters of params. A nil client yields a DoNothingLogger.
func NewLogger(client monitoring.Client, primitive, apiFunction string, params key.Parameters) (monitoring.Logger, error) {
	if client == nil {
		return &DoNothingLogger{}, nil
	}
	if params == nil {
		return nil, fmt.Errorf("monitoringutil.NewLogger: params must not be nil")
	}
	return client.NewLogger(monitoring.NewContext(primitive, apiFunction, params.String()))
}
