package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	baseLogger *zap.Logger
	initOnce   sync.Once
	verbose    bool
)

// SetVerbose switches the process to debug-level development logging.
// Must be called before the first Get.
func SetVerbose(v bool) { verbose = v }

func base() *zap.Logger {
	initOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg = zap.NewDevelopmentConfig()
		}
		var err error
		baseLogger, err = cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error instantiating logger: %v\n", err)
			os.Exit(1)
		}
		baseLogger = baseLogger.Named("slipway")
	})
	return baseLogger
}

// Get returns a named sugared logger for a subsystem.
func Get(names ...string) *zap.SugaredLogger {
	logger := base().WithOptions(zap.AddStacktrace(zap.WarnLevel))
	for _, name := range names {
		logger = logger.Named(name)
	}
	return logger.Sugar()
}
