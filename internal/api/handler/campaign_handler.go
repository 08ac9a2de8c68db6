package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundhub/internal/api/middleware"
	"fundhub/internal/app/service"
	"fundhub/internal/common"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(cs *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: cs}
}

func (h *CampaignHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/", h.list)          // GET /campaigns
	r.Get("/{id}", h.get)       // GET /campaigns/{id}

	r.Group(func(private chi.Router) {
		private.Use(auth)
		private.Post("/", h.create)
		private.Put("/{id}", h.update)
		private.Delete("/{id}", h.delete)
	})
}

func (h *CampaignHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	campaign, err := h.campaignService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "Campaign created successfully", common.Payload{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("limit"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 12
	}

	params := service.ListCampaignsParams{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     page,
		PageSize: pageSize,
	}

	campaigns, total, err := h.campaignService.List(r.Context(), params)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	common.RespondWithJSON(w, http.StatusOK, "OK", common.Payload{
		"campaigns": campaigns,
		"pagination": common.Payload{
			"currentPage":    page,
			"totalPages":     totalPages,
			"totalCampaigns": total,
			"hasNext":        (page-1)*pageSize+len(campaigns) < total,
			"hasPrev":        page > 1,
		},
	})
}

func (h *CampaignHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, recentDonations, err := h.campaignService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", common.Payload{
		"campaign":        campaign,
		"recentDonations": recentDonations,
	})
}

func (h *CampaignHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	campaign, err := h.campaignService.Update(r.Context(), chi.URLParam(r, "id"), userID, role, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Campaign updated successfully", common.Payload{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	if err := h.campaignService.Delete(r.Context(), chi.URLParam(r, "id"), userID, role); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Campaign deleted successfully", nil)
}
