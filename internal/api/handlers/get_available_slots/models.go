package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	RoomID      int64          `json:"roomId"`
	Date        string         `json:"date"`
	SlotMinutes int            `json:"slotMinutes"`
	RoomBlocked bool           `json:"roomBlocked"`
	Slots       []SlotResponse `json:"slots"`
}

// SlotResponse временной слот
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Free      bool   `json:"free"`
}

// ToUseCaseRequest формирует запрос к use case с парсингом даты
func ToUseCaseRequest(roomID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		RoomID: roomID,
		Date:   date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		RoomID:      resp.RoomID,
		Date:        resp.Date.Format(domain.DateFormat),
		SlotMinutes: resp.SlotMinutes,
		RoomBlocked: resp.RoomBlocked,
		Slots:       make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, slot := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
			Free:      slot.Free,
		})
	}

	return out
}
