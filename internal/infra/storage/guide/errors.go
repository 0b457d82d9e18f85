package guide

import "errors"

var (
	// ErrGuideNotFound возвращается, когда гид не найден
	ErrGuideNotFound = errors.New("guide.repository: guide not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("guide.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("guide.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("guide.repository: failed to scan row")
)
