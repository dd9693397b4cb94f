package screen

import "webterm/internal/logger"

var log = logger.Named("screen")
