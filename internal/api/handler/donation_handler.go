package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundhub/internal/api/middleware"
	"fundhub/internal/app/service"
	"fundhub/internal/common"
)

type DonationHandler struct {
	donationService *service.DonationService
}

func NewDonationHandler(ds *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: ds}
}

func (h *DonationHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/campaign/{id}", h.listForCampaign) // GET /donations/campaign/{id}

	r.Group(func(private chi.Router) {
		private.Use(auth)
		private.Post("/", h.donate)
		private.Get("/my-donations", h.myDonations)
	})
}

func (h *DonationHandler) donate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.DonateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	donation, err := h.donationService.Donate(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "Donation successful! Thank you for your contribution.", common.Payload{
		"donation": donation,
	})
}

func (h *DonationHandler) listForCampaign(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	donations, err := h.donationService.ListForCampaign(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", common.Payload{
		"donations": donations,
		"count":     len(donations),
	})
}

func (h *DonationHandler) myDonations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	donations, total, err := h.donationService.ListForDonor(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", common.Payload{
		"donations":    donations,
		"totalDonated": total,
	})
}
