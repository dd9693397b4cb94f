package remote

import "webterm/internal/logger"

var log = logger.Named("remote")
