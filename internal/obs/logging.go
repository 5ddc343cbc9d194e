// Package obs contains observability utilities such as logging.
package obs

import "go.uber.org/zap"

// Logger is the global structured logger used by the service.
//
// Logger is exported to allow other packages to use it for logging.
var Logger *zap.SugaredLogger

// InitLogger initializes the global Logger with zap's production JSON
// encoder. Falls back to a no-op logger if construction fails so callers
// never have to nil-check.
func InitLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		Logger = zap.NewNop().Sugar()
		return
	}
	Logger = l.Sugar()
}

func init() {
	// Tests and early boot paths may log before main wires things up.
	InitLogger()
}
