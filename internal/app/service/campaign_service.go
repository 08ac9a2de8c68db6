package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"fundhub/internal/common"
	"fundhub/internal/domain/model"
	"fundhub/internal/domain/repository"
)

type CampaignService struct {
	campaignRepo repository.CampaignRepository
	donationRepo repository.DonationRepository
}

func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	donationRepo repository.DonationRepository,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
	}
}

type CreateCampaignRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	GoalAmount  int64     `json:"goal_amount"`
	Deadline    time.Time `json:"deadline"`
	Image       string    `json:"image"`
}

// UpdateCampaignRequest carries only the caller-mutable fields; raised
// amount and status are never settable through the API.
type UpdateCampaignRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	GoalAmount  *int64     `json:"goal_amount"`
	Deadline    *time.Time `json:"deadline"`
	Image       *string    `json:"image"`
}

type ListCampaignsParams struct {
	Category string
	Status   string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

func validateCampaignFields(title, description, category string, goalAmount int64, deadline time.Time) error {
	// Bounds count characters, not bytes.
	if n := utf8.RuneCountInString(title); n < 5 || n > 100 {
		return common.Errorf("title must be between 5 and 100 characters: %w", common.ErrValidation)
	}
	if utf8.RuneCountInString(description) < 50 {
		return common.Errorf("description must be at least 50 characters long: %w", common.ErrValidation)
	}
	if !model.ValidCategory(category) {
		return common.Errorf("invalid category selected: %w", common.ErrValidation)
	}
	if goalAmount < 1 {
		return common.Errorf("goal amount must be at least 1: %w", common.ErrValidation)
	}
	if !deadline.After(time.Now()) {
		return common.Errorf("deadline must be in the future: %w", common.ErrValidation)
	}
	return nil
}

func (s *CampaignService) Create(ctx context.Context, creatorID string, req CreateCampaignRequest) (*model.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	if err := validateCampaignFields(title, description, req.Category, req.GoalAmount, req.Deadline); err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
		Image:       req.Image,
		CreatorID:   creatorID,
		Deadline:    req.Deadline,
		Status:      model.CampaignActive,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	// Re-read to pick up creator fields and timestamps.
	return s.campaignRepo.FindByID(ctx, campaign.ID)
}

// Get returns the campaign along with its most recent donations.
func (s *CampaignService) Get(ctx context.Context, id string) (*model.Campaign, []model.Donation, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	donations, err := s.donationRepo.ListByCampaign(ctx, id, 10)
	if err != nil {
		return nil, nil, err
	}
	for i := range donations {
		donations[i].MaskDonor()
	}
	return campaign, donations, nil
}

func (s *CampaignService) List(ctx context.Context, params ListCampaignsParams) ([]model.Campaign, int, error) {
	status := model.CampaignStatus(params.Status)
	if params.Status == "" {
		status = model.CampaignActive
	} else if !model.ValidCampaignStatus(status) {
		return nil, 0, common.Errorf("invalid status filter: %w", common.ErrValidation)
	}
	if params.Category != "" && !model.ValidCategory(params.Category) {
		return nil, 0, common.Errorf("invalid category filter: %w", common.ErrValidation)
	}

	filter := repository.CampaignFilter{
		Category: params.Category,
		Status:   status,
		Search:   params.Search,
		Sort:     params.Sort,
		Limit:    params.PageSize,
		Offset:   (params.Page - 1) * params.PageSize,
	}
	return s.campaignRepo.List(ctx, filter)
}

func (s *CampaignService) Update(ctx context.Context, id, callerID, callerRole string, req UpdateCampaignRequest) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.CreatorID != callerID && callerRole != model.RoleAdmin {
		return nil, common.Errorf("not authorized to update this campaign: %w", common.ErrForbidden)
	}

	if req.Title != nil {
		campaign.Title = strings.TrimSpace(*req.Title)
		campaign.Slug = slug.Make(campaign.Title)
	}
	if req.Description != nil {
		campaign.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		campaign.Category = *req.Category
	}
	if req.GoalAmount != nil {
		campaign.GoalAmount = *req.GoalAmount
	}
	if req.Deadline != nil {
		campaign.Deadline = *req.Deadline
	}
	if req.Image != nil {
		campaign.Image = *req.Image
	}

	if err := validateCampaignFields(campaign.Title, campaign.Description, campaign.Category, campaign.GoalAmount, campaign.Deadline); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}
	return s.campaignRepo.FindByID(ctx, id)
}

// Delete removes the campaign and cascades over its donations; the
// repository applies both deletes in one transaction.
func (s *CampaignService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if campaign.CreatorID != callerID && callerRole != model.RoleAdmin {
		return common.Errorf("not authorized to delete this campaign: %w", common.ErrForbidden)
	}
	return s.campaignRepo.DeleteCascade(ctx, id)
}
