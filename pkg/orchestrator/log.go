// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import "github.com/mesh-intelligence/yatm/pkg/logger"

// logf writes a debug line to the process-wide logger.
func logf(format string, args ...any) { logger.Debugf(format, args...) }
