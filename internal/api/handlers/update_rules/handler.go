package update_rules

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_rules"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingFields      = "обязательны workStartMinute, workEndMinute, maxBookingMinutes и slotMinutes"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/rules
// Только для администратора. Новые правила применяются к следующим бронированиям.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, ok := req.ToDomainRule()
	if !ok {
		h.logger.Warn("PUT /rules - Missing fields")
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	updated, err := h.service.Update(r.Context(), rule)
	if err != nil {
		if rej, ok := domain.AsRejection(err); ok {
			h.logger.Warn("PUT /rules - Rejected: reason=%s, message=%s", rej.Reason, rej.Message)
			handlers.RespondRejection(w, rej)
			return
		}

		h.logger.Error("PUT /rules - Failed to update rules: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /rules - Rules updated: work %d-%d, max %d, slot %d",
		updated.WorkStartMinute, updated.WorkEndMinute, updated.MaxBookingMinutes, updated.SlotMinutes)
	handlers.RespondJSON(w, http.StatusOK, get_rules.FromDomainRule(*updated))
}
