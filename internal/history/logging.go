package history

import "webterm/internal/logger"

var log = logger.Named("history")
