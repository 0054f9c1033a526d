package report

import (
	"errors"
	"net/http"
	"strings"

	"inspections/internal/server"
	"inspections/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	logger  *logrus.Logger
	service *Service

	// replicaLag is set when GetReport reads from a separate replica. A not
	// ready response then carries Retry-After.
	replicaLag bool
}

func NewHandlers(logger *logrus.Logger, service *Service, replicaLag bool) *Handlers {
	return &Handlers{logger: logger, service: service, replicaLag: replicaLag}
}

func (h *Handlers) Routes(r *flow.Mux) {
	r.HandleFunc("/api/reports/:inspectionID", h.handlePostReport, http.MethodPost)
	r.HandleFunc("/api/reports/:inspectionID", h.handleGetReport, http.MethodGet)
}

func (h *Handlers) handlePostReport(w http.ResponseWriter, r *http.Request) {
	inspectionID := strings.TrimSpace(r.PathValue("inspectionID"))

	report, err := h.service.Generate(r.Context(), inspectionID)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Report generated successfully",
		"report":  report,
	})
}

func (h *Handlers) handleGetReport(w http.ResponseWriter, r *http.Request) {
	inspectionID := strings.TrimSpace(r.PathValue("inspectionID"))

	report, err := h.service.Get(r.Context(), inspectionID)
	if err != nil {
		if h.replicaLag && errors.Is(err, types.ErrReportNotReady) {
			w.Header().Set("Retry-After", "1")
		}
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"report": report,
	})
}
