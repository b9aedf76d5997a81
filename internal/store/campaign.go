package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignTableName = "giventake.campaigns"

var campaignColumns = utils.StructTagValues(types.Campaign{})

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) Campaign(ctx context.Context, campaignID string) (*types.Campaign, error) {
	query, args, err := psql().
		Select(campaignColumns...).
		From(campaignTableName).
		Where(sq.Eq{"id": campaignID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaign query: %w", err)
	}

	var campaign types.Campaign
	err = pgxscan.Get(ctx, r.pool, &campaign, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}

	return &campaign, nil
}

func (r *CampaignRepository) CampaignsByIDs(ctx context.Context, campaignIDs []string) ([]*types.Campaign, error) {
	if len(campaignIDs) == 0 {
		return []*types.Campaign{}, nil
	}
	return r.campaigns(ctx, sq.Eq{"id": campaignIDs})
}

// Campaigns lists campaigns newest first, limited to orgID when set.
func (r *CampaignRepository) Campaigns(ctx context.Context, orgID string) ([]*types.Campaign, error) {
	if orgID == "" {
		return r.campaigns(ctx, nil)
	}
	return r.campaigns(ctx, sq.Eq{"org_id": orgID})
}

func (r *CampaignRepository) campaigns(ctx context.Context, where sq.Sqlizer) ([]*types.Campaign, error) {
	builder := psql().
		Select(campaignColumns...).
		From(campaignTableName).
		OrderBy("created_at DESC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaigns query: %w", err)
	}

	var campaigns []*types.Campaign
	err = pgxscan.Select(ctx, r.pool, &campaigns, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *types.Campaign) error {
	campaign.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(campaignTableName).
		SetMap(utils.StructToMap(campaign)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create campaign query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) Upsert(ctx context.Context, campaign *types.Campaign) error {
	campaign.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(campaignTableName).
		SetMap(utils.StructToMap(campaign)).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, amount = EXCLUDED.amount").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert campaign query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign: %w", err)
	}

	return nil
}

// AddFunds increments amount_raised in the database and returns the new
// total, so concurrent calls never lose an update.
func (r *CampaignRepository) AddFunds(ctx context.Context, campaignID string, amount float64) (float64, error) {
	query, args, err := psql().
		Update(campaignTableName).
		Set("amount_raised", sq.Expr("COALESCE(amount_raised, 0) + ?", amount)).
		Where(sq.Eq{"id": campaignID}).
		Suffix("RETURNING amount_raised").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate add funds query: %w", err)
	}

	var total float64
	err = r.pool.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, types.ErrCampaignNotFound
		}
		return 0, fmt.Errorf("failed to add campaign funds: %w", err)
	}

	return total, nil
}
