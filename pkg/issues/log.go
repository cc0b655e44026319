// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package issues

import "github.com/mesh-intelligence/yatm/pkg/logger"

func logf(format string, args ...any) { logger.Debugf(format, args...) }
