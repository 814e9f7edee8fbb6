package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	projectLogger *logrus.Entry
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every package in the project.
func GetProjectLogger() *logrus.Entry {
	once.Do(func() {
		l := logrus.New()
		l.Out = os.Stderr
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		projectLogger = l.WithField("name", "scorefollow")
	})
	return projectLogger
}

// SetLevel changes the verbosity of the project logger, e.g. "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	GetProjectLogger().Logger.SetLevel(lvl)
	return nil
}
