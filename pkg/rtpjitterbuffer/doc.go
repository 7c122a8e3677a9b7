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

// Package rtpjitterbuffer implements a real-time RTP reordering and
// pacing buffer. It sits between an RTP ingress source and a single
// downstream consumer: it reorders packets that arrive out of order,
// drops duplicates and packets that arrive too late, waits a bounded
// amount of time for missing packets, and releases packets on a pacing
// schedule derived from their RTP timestamps and a reference clock.
package rtpjitterbuffer
