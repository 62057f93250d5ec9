package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the shared structured logger.  Output is JSON so log
// aggregation can index the fields emitted by the queue consumer and
// the request flow.  LOG_LEVEL overrides the default info level.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetLevel(logrus.InfoLevel)
	if lvl := strings.ToLower(os.Getenv("LOG_LEVEL")); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		}
	}
	return log
}
