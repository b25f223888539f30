package delete_exclusion

import "context"

type AvailabilityService interface {
	DeleteExclusion(ctx context.Context, providerID, actorID, exclusionID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
