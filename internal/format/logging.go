package format

import "webterm/internal/logger"

var log = logger.Named("format")
