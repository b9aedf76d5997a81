package store

import (
	"context"
	"fmt"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationItemTableName = "giventake.donation_items"

var donationItemColumns = utils.StructTagValues(types.DonationItem{})

type DonationItemRepository struct {
	pool *pgxpool.Pool
}

func NewDonationItemRepository(pool *pgxpool.Pool) *DonationItemRepository {
	return &DonationItemRepository{pool: pool}
}

func (r *DonationItemRepository) Create(ctx context.Context, item *types.DonationItem) error {
	item.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(donationItemTableName).
		SetMap(utils.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donation item query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create donation item: %w", err)
	}

	return nil
}

func (r *DonationItemRepository) ItemsByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.DonationItem, error) {
	if len(donationIDs) == 0 {
		return []*types.DonationItem{}, nil
	}

	query, args, err := psql().
		Select(donationItemColumns...).
		From(donationItemTableName).
		Where(sq.Eq{"donation_id": donationIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation items query: %w", err)
	}

	var items []*types.DonationItem
	err = pgxscan.Select(ctx, r.pool, &items, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation items: %w", err)
	}

	return items, nil
}

func (r *DonationItemRepository) DeleteByDonation(ctx context.Context, donationID string) error {
	query, args, err := psql().
		Delete(donationItemTableName).
		Where(sq.Eq{"donation_id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation items query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donation items: %w", err)
	}

	return nil
}
