package shell

import "webterm/internal/logger"

var log = logger.Named("shell")
