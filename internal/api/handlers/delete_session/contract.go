package delete_session

import (
	"context"

	deleteSession "github.com/m04kA/guide-sessions/internal/usecase/delete_session"
)

type DeleteSessionUseCase interface {
	Execute(ctx context.Context, req *deleteSession.Request) (*deleteSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
