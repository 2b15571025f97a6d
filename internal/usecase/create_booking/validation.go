package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: end_time is required", ErrInvalidInput)
	}

	return nil
}

// attendeesOrDefault возвращает количество участников, 1 если не указано
func attendeesOrDefault(attendees *int) int {
	if attendees == nil {
		return domain.DefaultAttendees
	}
	return *attendees
}

// checkRoom проверяет, что комната принимает бронирование на attendees участников
func checkRoom(room *domain.Room, attendees int) error {
	if room.IsBlocked() {
		return domain.ErrRoomBlocked
	}
	return room.CheckAttendees(attendees)
}
