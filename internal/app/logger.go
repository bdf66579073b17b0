package app

import (
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/constants"
)

// SetupLogger sets up the logger from LOG_LEVEL and LOG_FORMAT
func SetupLogger() *logrus.Logger {
	logger := logrus.New()
	ConfigureLogger(logger, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	return logger
}

// ConfigureLogger applies a level and format to logger
func ConfigureLogger(logger *logrus.Logger, logLevel, format string) {
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Printf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: constants.TimestampFormat})
		return
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})
}
