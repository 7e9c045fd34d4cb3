package whatsapp

import (
	"github.com/sirupsen/logrus"
	waLog "go.mau.fi/whatsmeow/util/log"
)

type logrusAdapter struct {
	module string
	entry  *logrus.Entry
}

// NewLogger routes whatsmeow logs through the service logger.
func NewLogger(log *logrus.Logger, module string) waLog.Logger {
	return &logrusAdapter{
		module: module,
		entry:  log.WithField("module", module),
	}
}

func (a *logrusAdapter) Errorf(msg string, args ...interface{}) {
	a.entry.Errorf(msg, args...)
}

func (a *logrusAdapter) Warnf(msg string, args ...interface{}) {
	a.entry.Warnf(msg, args...)
}

func (a *logrusAdapter) Infof(msg string, args ...interface{}) {
	a.entry.Infof(msg, args...)
}

func (a *logrusAdapter) Debugf(msg string, args ...interface{}) {
	a.entry.Debugf(msg, args...)
}

func (a *logrusAdapter) Sub(module string) waLog.Logger {
	name := a.module + "/" + module
	return &logrusAdapter{
		module: name,
		entry:  a.entry.WithField("module", name),
	}
}
