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
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FaultSignPrimitive is the primitive name of fault-injection signers. The
// zap client logs their operations at warn level.
const FaultSignPrimitive = "fault_sign"

// ZapClient is a Client writing one structured log entry per operation.
type ZapClient struct {
	logger *zap.Logger
}

var _ Client = (*ZapClient)(nil)

// NewZapClient creates a new ZapClient writing to logger.
func NewZapClient(logger *zap.Logger) *ZapClient {
	return &ZapClient{logger: logger}
}

// NewLogger returns a Logger whose entries carry the fields of context.
func (c *ZapClient) NewLogger(context *Context) (Logger, error) {
	if context == nil {
		return nil, fmt.Errorf("monitoring.NewLogger: context must not be nil")
	}
	level := zapcore.DebugLevel
	if context.Primitive == FaultSignPrimitive {
		level = zapcore.WarnLevel
	}
	return &zapLogger{
		logger: c.logger.With(
			zap.String("primitive", context.Primitive),
			zap.String("api", context.APIFunction),
			zap.String("params", context.Parameters),
		),
		level: level,
	}, nil
}

type zapLogger struct {
	logger *zap.Logger
	level  zapcore.Level
}

func (l *zapLogger) Log(numBytes int) {
	l.logger.Log(l.level, "operation", zap.Int("bytes", numBytes))
}

func (l *zapLogger) LogFailure() {
	l.logger.Error("operation failed")
}
