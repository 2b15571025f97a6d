package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrNotActive возвращается, когда бронирование уже не в статусе BOOKED
	ErrNotActive = errors.New("booking.repository: booking is not active")

	// ErrAlreadyCheckedIn возвращается, когда отметка о приходе уже проставлена
	ErrAlreadyCheckedIn = errors.New("booking.repository: booking already checked in")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
