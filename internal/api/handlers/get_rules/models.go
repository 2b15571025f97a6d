package get_rules

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// RulesResponse HTTP response model
type RulesResponse struct {
	WorkStartMinute   int       `json:"workStartMinute"`
	WorkEndMinute     int       `json:"workEndMinute"`
	MaxBookingMinutes int       `json:"maxBookingMinutes"`
	SlotMinutes       int       `json:"slotMinutes"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromDomainRule конвертирует domain модель в HTTP response
func FromDomainRule(rule domain.BookingRule) *RulesResponse {
	return &RulesResponse{
		WorkStartMinute:   rule.WorkStartMinute,
		WorkEndMinute:     rule.WorkEndMinute,
		MaxBookingMinutes: rule.MaxBookingMinutes,
		SlotMinutes:       rule.SlotMinutes,
		UpdatedAt:         rule.UpdatedAt,
	}
}
