package update_rules

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// UpdateRulesRequest HTTP request model, все поля обязательны
type UpdateRulesRequest struct {
	WorkStartMinute   *int `json:"workStartMinute"`
	WorkEndMinute     *int `json:"workEndMinute"`
	MaxBookingMinutes *int `json:"maxBookingMinutes"`
	SlotMinutes       *int `json:"slotMinutes"`
}

// ToDomainRule конвертирует запрос в domain модель, false если поле пропущено
func (r *UpdateRulesRequest) ToDomainRule() (domain.BookingRule, bool) {
	if r.WorkStartMinute == nil || r.WorkEndMinute == nil || r.MaxBookingMinutes == nil || r.SlotMinutes == nil {
		return domain.BookingRule{}, false
	}

	return domain.BookingRule{
		WorkStartMinute:   *r.WorkStartMinute,
		WorkEndMinute:     *r.WorkEndMinute,
		MaxBookingMinutes: *r.MaxBookingMinutes,
		SlotMinutes:       *r.SlotMinutes,
	}, true
}
