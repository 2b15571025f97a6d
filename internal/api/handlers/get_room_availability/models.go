package get_room_availability

import (
	"fmt"
	"time"

	checkAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	RoomID    int64              `json:"roomId"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	Available bool               `json:"available"`
	Reason    *string            `json:"reason,omitempty"`
	Message   *string            `json:"message,omitempty"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// ConflictResponse пересекающееся бронирование
type ConflictResponse struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(roomID int64, startStr, endStr string) (*checkAvailability.Request, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	return &checkAvailability.Request{
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		RoomID:    resp.RoomID,
		StartTime: resp.StartTime.Format(time.RFC3339),
		EndTime:   resp.EndTime.Format(time.RFC3339),
		Available: resp.Available,
		Message:   resp.Message,
		Conflicts: make([]ConflictResponse, 0, len(resp.Conflicts)),
	}

	if resp.Reason != nil {
		reason := string(*resp.Reason)
		out.Reason = &reason
	}

	for _, c := range resp.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictResponse{
			BookingID: c.BookingID,
			StartTime: c.StartTime.Format(time.RFC3339),
			EndTime:   c.EndTime.Format(time.RFC3339),
		})
	}

	return out
}
