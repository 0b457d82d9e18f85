package product

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("product.repository: product not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("product.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("product.repository: failed to scan row")
)
