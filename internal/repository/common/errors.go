package common

import "errors"

// Общие ошибки для всех репозиториев
var (
	// ErrAlreadyExists возвращается при нарушении уникального ограничения,
	// когда у репозитория нет более точной доменной ошибки.
	ErrAlreadyExists = errors.New("entity already exists")
)
