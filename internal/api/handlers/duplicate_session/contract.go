package duplicate_session

import (
	"context"

	duplicateSession "github.com/m04kA/guide-sessions/internal/usecase/duplicate_session"
)

type DuplicateSessionUseCase interface {
	Execute(ctx context.Context, req *duplicateSession.Request) (*duplicateSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
