package public

import (
	"net/http"

	"pharmaduty-go/internal/domain/pharmacy"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

type neighborhoodPharmaciesResponse struct {
	Neighborhood commonhandler.NeighborhoodResponse `json:"neighborhood"`
	Items        []commonhandler.PharmacyResponse   `json:"items"`
	Meta         interface{}                        `json:"meta"`
}

func (h *Handlers) ListNeighborhoods(w http.ResponseWriter, r *http.Request) {
	items, err := h.Neighborhoods.List(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "neighborhoods.list", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": commonhandler.ToNeighborhoodResponses(items),
	})
}

func (h *Handlers) NeighborhoodPharmacies(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid neighborhood id")
		return
	}
	params, err := commonhandler.ParsePagination(r.URL.Query())
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}

	found, err := h.Neighborhoods.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "neighborhoods.pharmacies", err, "neighborhood_id", id)
		return
	}

	items, meta, err := h.Pharmacies.ListPublic(r.Context(), pharmacy.ListFilter{NeighborhoodID: &id, Params: params})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "neighborhoods.pharmacies", err, "neighborhood_id", id)
		return
	}
	writeJSON(w, http.StatusOK, neighborhoodPharmaciesResponse{
		Neighborhood: commonhandler.ToNeighborhoodResponse(*found),
		Items:        commonhandler.ToListingResponses(items, false),
		Meta:         meta,
	})
}

func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Statistics.Summary(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "statistics.summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
