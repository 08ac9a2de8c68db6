package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fundhub/internal/domain/model"
)

type DonorStats struct {
	DonationsMade int   `json:"donationsMade"`
	TotalDonated  int64 `json:"totalDonated"`
}

type DonationRepository interface {
	// CreateWithContribution persists the donation and applies its effect
	// on the campaign's totals in one transaction: either both are
	// committed or neither is. The returned campaign reflects the applied
	// contribution.
	CreateWithContribution(ctx context.Context, d *model.Donation) (*model.Campaign, error)

	ListByCampaign(ctx context.Context, campaignID string, limit int) ([]model.Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]model.Donation, error)
	StatsByDonor(ctx context.Context, donorID string) (*DonorStats, error)
}

type pgDonationRepository struct {
	db           *sql.DB
	campaignRepo CampaignRepository
}

func NewPgDonationRepository(db *sql.DB, campaignRepo CampaignRepository) DonationRepository {
	return &pgDonationRepository{db: db, campaignRepo: campaignRepo}
}

func (r *pgDonationRepository) CreateWithContribution(ctx context.Context, d *model.Donation) (*model.Campaign, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("pgDonationRepository.CreateWithContribution begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO donations (id, amount, donor_id, campaign_id, message, anonymous)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err = tx.QueryRowContext(ctx, query, d.ID, d.Amount, d.DonorID, d.CampaignID, d.Message, d.Anonymous).Scan(&d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("pgDonationRepository.CreateWithContribution insert: %w", err)
	}

	campaign, err := r.campaignRepo.RecordContribution(ctx, tx, d.CampaignID, d.Amount)
	if err != nil {
		// common.ErrCampaignClosed when the campaign left 'active'
		// concurrently; the rollback discards the donation row.
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pgDonationRepository.CreateWithContribution commit: %w", err)
	}
	return campaign, nil
}

func (r *pgDonationRepository) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]model.Donation, error) {
	query := `SELECT d.id, d.amount, d.donor_id, u.name, u.avatar, d.campaign_id,
	                 d.message, d.anonymous, d.created_at
	          FROM donations d
	          JOIN users u ON d.donor_id = u.id
	          WHERE d.campaign_id = $1
	          ORDER BY d.created_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, campaignID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgDonationRepository.ListByCampaign: %w", err)
	}
	defer rows.Close()

	donations := []model.Donation{}
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.Amount, &d.DonorID, &d.DonorName, &d.DonorAvatar,
			&d.CampaignID, &d.Message, &d.Anonymous, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgDonationRepository.ListByCampaign scan: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *pgDonationRepository) ListByDonor(ctx context.Context, donorID string) ([]model.Donation, error) {
	query := `SELECT d.id, d.amount, d.donor_id, d.campaign_id, c.title, c.image,
	                 d.message, d.anonymous, d.created_at
	          FROM donations d
	          JOIN campaigns c ON d.campaign_id = c.id
	          WHERE d.donor_id = $1
	          ORDER BY d.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("pgDonationRepository.ListByDonor: %w", err)
	}
	defer rows.Close()

	donations := []model.Donation{}
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.Amount, &d.DonorID, &d.CampaignID, &d.CampaignTitle,
			&d.CampaignImage, &d.Message, &d.Anonymous, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgDonationRepository.ListByDonor scan: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *pgDonationRepository) StatsByDonor(ctx context.Context, donorID string) (*DonorStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0)
	          FROM donations WHERE donor_id = $1`
	stats := &DonorStats{}
	err := r.db.QueryRowContext(ctx, query, donorID).Scan(&stats.DonationsMade, &stats.TotalDonated)
	if err != nil {
		return nil, fmt.Errorf("pgDonationRepository.StatsByDonor: %w", err)
	}
	return stats, nil
}
