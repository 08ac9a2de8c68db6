package service

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fundhub/internal/common"
	"fundhub/internal/domain/model"
	"fundhub/internal/domain/repository"
)

// EventQueue is the outbound edge for donation events; satisfied by
// queue.ListQueue.
type EventQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// DonationEvent is pushed after a committed donation for the notification
// worker to consume.
type DonationEvent struct {
	DonationID    string `json:"donation_id"`
	CampaignID    string `json:"campaign_id"`
	CampaignTitle string `json:"campaign_title"`
	DonorID       string `json:"donor_id"`
	Amount        int64  `json:"amount"`
	Completed     bool   `json:"completed"` // the donation pushed the campaign over its goal
}

type DonationService struct {
	donationRepo repository.DonationRepository
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	events       EventQueue
	logger       zerolog.Logger
}

func NewDonationService(
	donationRepo repository.DonationRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	events EventQueue,
	logger zerolog.Logger,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		events:       events,
		logger:       logger,
	}
}

type DonateRequest struct {
	CampaignID string `json:"campaign"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`
	Anonymous  bool   `json:"anonymous"`
}

// Donate records a donation and applies it to the campaign totals as one
// logical transaction: either both are committed or neither is.
func (s *DonationService) Donate(ctx context.Context, donorID string, req DonateRequest) (*model.Donation, error) {
	if req.Amount < 1 {
		return nil, common.Errorf("amount must be at least 1: %w", common.ErrValidation)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignActive {
		return nil, common.Errorf("cannot donate to inactive campaign: %w", common.ErrCampaignClosed)
	}
	if campaign.CreatorID == donorID {
		return nil, common.Errorf("cannot donate to your own campaign: %w", common.ErrSelfDonation)
	}
	if utf8.RuneCountInString(req.Message) > 500 {
		return nil, common.Errorf("message cannot exceed 500 characters: %w", common.ErrValidation)
	}

	donor, err := s.userRepo.FindByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	donation := &model.Donation{
		ID:         uuid.NewString(),
		Amount:     req.Amount,
		DonorID:    donorID,
		CampaignID: req.CampaignID,
		Message:    req.Message,
		Anonymous:  req.Anonymous,
	}

	// The repository applies both writes in one transaction; its guarded
	// update serializes concurrent donations on the campaign row and
	// rejects a campaign that closed since the check above.
	updated, err := s.donationRepo.CreateWithContribution(ctx, donation)
	if err != nil {
		return nil, err
	}

	donation.DonorName = donor.Name
	donation.DonorAvatar = donor.Avatar
	donation.CampaignTitle = updated.Title

	s.publishEvent(ctx, DonationEvent{
		DonationID:    donation.ID,
		CampaignID:    updated.ID,
		CampaignTitle: updated.Title,
		DonorID:       donorID,
		Amount:        req.Amount,
		Completed:     updated.Status == model.CampaignCompleted,
	})

	return donation, nil
}

// publishEvent is best effort: a queue failure is logged, never surfaced
// to the donor.
func (s *DonationService) publishEvent(ctx context.Context, event DonationEvent) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal donation event")
		return
	}
	if err := s.events.Enqueue(ctx, payload); err != nil {
		s.logger.Error().Err(err).Str("donation_id", event.DonationID).Msg("failed to enqueue donation event")
	}
}

func (s *DonationService) ListForCampaign(ctx context.Context, campaignID string, limit int) ([]model.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	donations, err := s.donationRepo.ListByCampaign(ctx, campaignID, limit)
	if err != nil {
		return nil, err
	}
	for i := range donations {
		donations[i].MaskDonor()
	}
	return donations, nil
}

// ListForDonor returns the donor's full history, newest first, plus the
// sum of their donations.
func (s *DonationService) ListForDonor(ctx context.Context, donorID string) ([]model.Donation, int64, error) {
	donations, err := s.donationRepo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, d := range donations {
		total += d.Amount
	}
	return donations, total, nil
}
