// Package services holds helpers shared by the DI service implementations.
// ServiceLogger stamps every event with the owning service's container id,
// so log lines stay attributable after services are composed.
package services

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceIdentifier is the subset of a DI instance the logger needs.
type ServiceIdentifier interface {
	ID() string
}

type ServiceLogger struct {
	logger zerolog.Logger
}

func NewServiceLogger(svc ServiceIdentifier) *ServiceLogger {
	return &ServiceLogger{
		logger: log.With().Str("service", svc.ID()).Logger(),
	}
}

func (l *ServiceLogger) Info() *zerolog.Event {
	return l.logger.Info()
}

func (l *ServiceLogger) Error() *zerolog.Event {
	return l.logger.Error()
}

func (l *ServiceLogger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

func (l *ServiceLogger) Debug() *zerolog.Event {
	return l.logger.Debug()
}
