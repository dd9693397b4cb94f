package input

import "webterm/internal/logger"

var log = logger.Named("input")
