package launcher

import (
	"fmt"
	"io"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// sentryLevels are reported to Sentry when a DSN is configured.
var sentryLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
}

// verbosityLevel maps the 0=fatal..5=trace scale onto logrus levels.
func verbosityLevel(v int) logrus.Level {
	switch {
	case v <= 0:
		return logrus.FatalLevel
	case v >= 5:
		return logrus.TraceLevel
	default:
		return logrus.Level(v + 1)
	}
}

func newLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(verbosityLevel(cfg.Verbosity))

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, sentryLevels)
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		hook.Timeout = 5 * time.Second
		hook.StacktraceConfiguration.Enable = true
		log.AddHook(hook)
	}
	return log, nil
}
