package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fundhub/internal/common"
	"fundhub/internal/domain/model"
)

// CampaignFilter narrows and orders a campaign listing. Sort accepts the
// API's tokens ("-createdAt" is the default, "goalAmount", "-deadline",
// ...); anything outside the whitelist falls back to newest-first.
type CampaignFilter struct {
	Category string
	Status   model.CampaignStatus
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

type CreatorStats struct {
	CampaignsCreated int   `json:"campaignsCreated"`
	TotalRaised      int64 `json:"totalRaised"`
}

type CampaignRepository interface {
	Create(ctx context.Context, c *model.Campaign) error
	FindByID(ctx context.Context, id string) (*model.Campaign, error)
	List(ctx context.Context, f CampaignFilter) ([]model.Campaign, int, error)
	Update(ctx context.Context, c *model.Campaign) error

	// DeleteCascade removes the campaign and every donation referencing it
	// in one transaction, so a campaign never persists as deleted while
	// its donations remain, or vice versa.
	DeleteCascade(ctx context.Context, id string) error

	// RecordContribution applies the donation's effect on the campaign row
	// as one guarded update: raised total grows by amount, donor count by
	// one, and status flips to completed when the new total reaches the
	// goal. Only rows still in 'active' status match; a zero-row result
	// surfaces as ErrCampaignClosed so the surrounding transaction aborts.
	RecordContribution(ctx context.Context, tx *sql.Tx, id string, amount int64) (*model.Campaign, error)

	StatsByCreator(ctx context.Context, creatorID string) (*CreatorStats, error)
}

type pgCampaignRepository struct {
	db *sql.DB
}

func NewPgCampaignRepository(db *sql.DB) CampaignRepository {
	return &pgCampaignRepository{db: db}
}

const campaignColumns = `c.id, c.title, c.slug, c.description, c.category, c.goal_amount,
       c.current_amount, c.image, c.creator_id, u.name, u.email, u.avatar,
       c.deadline, c.status, c.donors_count, c.created_at, c.updated_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.GoalAmount,
		&c.CurrentAmount, &c.Image, &c.CreatorID, &c.CreatorName, &c.CreatorEmail, &c.CreatorAvatar,
		&c.Deadline, &c.Status, &c.DonorsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ComputeProgress()
	return c, nil
}

func (r *pgCampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	query := `INSERT INTO campaigns (id, title, slug, description, category, goal_amount, image, creator_id, deadline, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Slug, c.Description, c.Category, c.GoalAmount, c.Image, c.CreatorID, c.Deadline, c.Status)
	if err != nil {
		return fmt.Errorf("pgCampaignRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCampaignRepository) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
	          FROM campaigns c
	          JOIN users u ON c.creator_id = u.id
	          WHERE c.id = $1`
	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCampaignRepository.FindByID: %w", err)
	}
	return c, nil
}

// sortClauses whitelists the orderings the API exposes.
var sortClauses = map[string]string{
	"-createdAt":     "c.created_at DESC",
	"createdAt":      "c.created_at ASC",
	"-goalAmount":    "c.goal_amount DESC",
	"goalAmount":     "c.goal_amount ASC",
	"-currentAmount": "c.current_amount DESC",
	"currentAmount":  "c.current_amount ASC",
	"-deadline":      "c.deadline DESC",
	"deadline":       "c.deadline ASC",
}

func (r *pgCampaignRepository) List(ctx context.Context, f CampaignFilter) ([]model.Campaign, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.category = $%d", argID))
		args = append(args, f.Category)
		argID++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argID))
		args = append(args, f.Status)
		argID++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.title ILIKE $%d OR c.description ILIKE $%d)", argID, argID))
		args = append(args, "%"+f.Search+"%")
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM campaigns c` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgCampaignRepository.List count: %w", err)
	}

	orderBy, ok := sortClauses[f.Sort]
	if !ok {
		orderBy = sortClauses["-createdAt"]
	}

	query := `SELECT ` + campaignColumns + `
	          FROM campaigns c
	          JOIN users u ON c.creator_id = u.id` + where +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, argID, argID+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCampaignRepository.List: %w", err)
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgCampaignRepository.List scan: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, total, rows.Err()
}

func (r *pgCampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
	query := `UPDATE campaigns SET
	            title = $1, slug = $2, description = $3, category = $4,
	            goal_amount = $5, deadline = $6, image = $7, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		c.Title, c.Slug, c.Description, c.Category, c.GoalAmount, c.Deadline, c.Image, c.ID)
	if err != nil {
		return fmt.Errorf("pgCampaignRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCampaignRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgCampaignRepository.DeleteCascade begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM donations WHERE campaign_id = $1`, id); err != nil {
		return fmt.Errorf("pgCampaignRepository.DeleteCascade donations: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCampaignRepository.DeleteCascade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return tx.Commit()
}

func (r *pgCampaignRepository) RecordContribution(ctx context.Context, tx *sql.Tx, id string, amount int64) (*model.Campaign, error) {
	query := `UPDATE campaigns SET
	            current_amount = current_amount + $1,
	            donors_count = donors_count + 1,
	            status = CASE WHEN current_amount + $1 >= goal_amount THEN 'completed' ELSE status END,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND status = 'active'
	          RETURNING id, title, slug, description, category, goal_amount,
	                    current_amount, image, creator_id, deadline, status,
	                    donors_count, created_at, updated_at`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, amount, id)
	} else {
		row = r.db.QueryRowContext(ctx, query, amount, id)
	}

	c := &model.Campaign{}
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.GoalAmount,
		&c.CurrentAmount, &c.Image, &c.CreatorID, &c.Deadline, &c.Status,
		&c.DonorsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The campaign left 'active' between the caller's check and
			// this update, or never existed.
			return nil, common.ErrCampaignClosed
		}
		return nil, fmt.Errorf("pgCampaignRepository.RecordContribution: %w", err)
	}
	c.ComputeProgress()
	return c, nil
}

func (r *pgCampaignRepository) StatsByCreator(ctx context.Context, creatorID string) (*CreatorStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(current_amount), 0)
	          FROM campaigns WHERE creator_id = $1`
	stats := &CreatorStats{}
	err := r.db.QueryRowContext(ctx, query, creatorID).Scan(&stats.CampaignsCreated, &stats.TotalRaised)
	if err != nil {
		return nil, fmt.Errorf("pgCampaignRepository.StatsByCreator: %w", err)
	}
	return stats, nil
}
