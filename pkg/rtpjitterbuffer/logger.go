// Copyright 2026 The gst-plugins-bad Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rtpjitterbuffer

import (
	"github.com/go-logr/logr"
	"github.com/livekit/protocol/logger"
)

// Logger is the structured logging contract consumed by JitterBuffer.
// github.com/livekit/protocol/logger.Logger satisfies it directly; any
// github.com/go-logr/logr.Logger (logr.New(sink) for a LogSink) can be
// adapted with logger.LogRLogger.
type Logger = logger.Logger

// defaultLogger is used by a JitterBuffer that wasn't given a Logger
// via WithLogger: it discards everything, matching the "proceeds
// regardless" tone of the rest of this package's ambient concerns.
func defaultLogger() Logger {
	return logger.LogRLogger(logr.Discard())
}
