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

const (
	foodItemTableName    = "giventake.food_items"
	clothesItemTableName = "giventake.clothes_items"
	otherItemTableName   = "giventake.other_items"
)

var (
	foodItemColumns    = utils.StructTagValues(types.FoodItem{})
	clothesItemColumns = utils.StructTagValues(types.ClothesItem{})
	otherItemColumns   = utils.StructTagValues(types.OtherItem{})
)

// DetailRepository owns the three category detail tables.
type DetailRepository struct {
	pool *pgxpool.Pool
}

func NewDetailRepository(pool *pgxpool.Pool) *DetailRepository {
	return &DetailRepository{pool: pool}
}

func (r *DetailRepository) CreateFood(ctx context.Context, item *types.FoodItem) error {
	item.CreatedAt = time.Now()
	return r.insert(ctx, foodItemTableName, utils.StructToMap(item))
}

func (r *DetailRepository) CreateClothes(ctx context.Context, item *types.ClothesItem) error {
	item.CreatedAt = time.Now()
	return r.insert(ctx, clothesItemTableName, utils.StructToMap(item))
}

func (r *DetailRepository) CreateOther(ctx context.Context, item *types.OtherItem) error {
	item.CreatedAt = time.Now()
	return r.insert(ctx, otherItemTableName, utils.StructToMap(item))
}

func (r *DetailRepository) insert(ctx context.Context, table string, values map[string]any) error {
	query, args, err := psql().
		Insert(table).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate %s insert: %w", table, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (r *DetailRepository) FoodByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.FoodItem, error) {
	return selectByDonationIDs[types.FoodItem](ctx, r.pool, foodItemTableName, foodItemColumns, donationIDs)
}

func (r *DetailRepository) ClothesByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.ClothesItem, error) {
	return selectByDonationIDs[types.ClothesItem](ctx, r.pool, clothesItemTableName, clothesItemColumns, donationIDs)
}

func (r *DetailRepository) OthersByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.OtherItem, error) {
	return selectByDonationIDs[types.OtherItem](ctx, r.pool, otherItemTableName, otherItemColumns, donationIDs)
}

func selectByDonationIDs[T any](ctx context.Context, pool *pgxpool.Pool, table string, columns, donationIDs []string) ([]*T, error) {
	if len(donationIDs) == 0 {
		return []*T{}, nil
	}

	query, args, err := psql().
		Select(columns...).
		From(table).
		Where(sq.Eq{"donation_id": donationIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s query: %w", table, err)
	}

	var rows []*T
	err = pgxscan.Select(ctx, pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s rows: %w", table, err)
	}

	return rows, nil
}

// DeleteByDonation clears every detail table for one donation in a single
// transaction.
func (r *DetailRepository) DeleteByDonation(ctx context.Context, donationID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx for detail delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, table := range []string{foodItemTableName, clothesItemTableName, otherItemTableName} {
		query, args, err := psql().
			Delete(table).
			Where(sq.Eq{"donation_id": donationID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate %s delete: %w", table, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit detail delete tx: %w", err)
	}

	return nil
}
