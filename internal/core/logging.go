package core

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger intended to be used for general application logs.
func NewLogger(cfg *Config) (*logrus.Logger, error) {
	var logLvl logrus.Level
	switch cfg.Logging.LogLevel {
	case "debug":
		logLvl = logrus.DebugLevel
	case "", "info":
		logLvl = logrus.InfoLevel
	case "warn":
		logLvl = logrus.WarnLevel
	case "error":
		logLvl = logrus.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.Logging.LogLevel)
	}

	logger := logrus.New()
	logger.SetLevel(logLvl)
	logger.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}

	if cfg.Logging.LogFilePath != "" {
		logFile, err := os.OpenFile(cfg.Logging.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file %s: %w", cfg.Logging.LogFilePath, err)
		}
		logger.SetOutput(logFile)
	}

	return logger, nil
}
