package http

import (
	"net/http"

	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/utils"
)

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	status := h.services.StatusService.GetStatus(r.Context())

	if _, err := utils.WriteJSON(w, status, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("writing status response")
	}
}
