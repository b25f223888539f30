package exclusion

import "errors"

var (
	// ErrExclusionNotFound возвращается, когда блок исключения не найден
	ErrExclusionNotFound = errors.New("exclusion.repository: exclusion block not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("exclusion.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("exclusion.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("exclusion.repository: failed to scan row")
)
