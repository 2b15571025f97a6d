package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (нет времени, неверный ID)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrLockUnavailable возвращается, когда не удалось получить блокировку комнаты.
	// Это отказ инфраструктуры, а не бизнес-отказ: слот при этом может быть свободен.
	ErrLockUnavailable = errors.New("create_booking: room lock unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
