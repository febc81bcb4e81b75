package logger

import "go.uber.org/zap"

// New returns a zap logger configured for the given environment. Production
// logs JSON at info level, everything else gets the human-readable
// development encoder at debug level.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
