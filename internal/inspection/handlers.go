package inspection

import (
	"net/http"
	"strings"

	"inspections/internal/server"
	"inspections/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Handlers struct {
	logger  *logrus.Logger
	service *Service
}

func NewHandlers(logger *logrus.Logger, service *Service) *Handlers {
	return &Handlers{logger: logger, service: service}
}

func (h *Handlers) Routes(r *flow.Mux) {
	r.HandleFunc("/api/inspections", h.handlePostInspection, http.MethodPost)
	r.HandleFunc("/api/inspections", h.handleListInspections, http.MethodGet)
	r.HandleFunc("/api/inspections/:inspectionID", h.handleGetInspection, http.MethodGet)
	r.HandleFunc("/api/inspections/:inspectionID", h.handlePutInspection, http.MethodPut)
	r.HandleFunc("/api/presigned-url", h.handlePostPresignedURL, http.MethodPost)
}

func (h *Handlers) handlePostInspection(w http.ResponseWriter, r *http.Request) {
	var req types.CreateInspectionRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	inspection, err := h.service.Create(r.Context(), &req)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":    "Inspection created successfully",
		"inspection": inspection,
	})
}

func (h *Handlers) handleListInspections(w http.ResponseWriter, r *http.Request) {
	var filter types.InspectionFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		server.WriteError(w, h.logger, &types.Error{Kind: types.KindValidation, Message: "Invalid query parameters", Err: err})
		return
	}

	inspections, err := h.service.List(r.Context(), filter.Status)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"count":       len(inspections),
		"inspections": inspections,
	})
}

func (h *Handlers) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	inspectionID := strings.TrimSpace(r.PathValue("inspectionID"))

	inspection, err := h.service.Get(r.Context(), inspectionID)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"inspection": inspection,
	})
}

func (h *Handlers) handlePutInspection(w http.ResponseWriter, r *http.Request) {
	inspectionID := strings.TrimSpace(r.PathValue("inspectionID"))

	patch := new(types.InspectionPatch)
	if err := server.DecodeOptionalJSON(r, patch); err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	inspection, err := h.service.Update(r.Context(), inspectionID, patch)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Inspection updated successfully",
		"inspection": inspection,
	})
}

func (h *Handlers) handlePostPresignedURL(w http.ResponseWriter, r *http.Request) {
	var req types.PresignRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	presigned, err := h.service.Presign(r.Context(), &req)
	if err != nil {
		server.WriteError(w, h.logger, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, presigned)
}
