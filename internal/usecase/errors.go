package usecase

import "errors"

// Фатальные ошибки запуска: процесс завершается с кодом 1 до любых записей
var (
	ErrInvalidParams    = errors.New("invalid run parameters")
	ErrStoreUnavailable = errors.New("store unavailable")
)
