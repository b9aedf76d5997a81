package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donorTableName = "giventake.donors"

var donorColumns = utils.StructTagValues(types.Donor{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

func (r *DonorRepository) Donor(ctx context.Context, userID string) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor: %w", err)
	}

	return &donor, nil
}

func (r *DonorRepository) DonorsByIDs(ctx context.Context, userIDs []string) ([]*types.Donor, error) {
	if len(userIDs) == 0 {
		return []*types.Donor{}, nil
	}

	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors-by-ids query: %w", err)
	}

	var donors []*types.Donor
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors by ids: %w", err)
	}

	return donors, nil
}

func (r *DonorRepository) Create(ctx context.Context, donor *types.Donor) error {
	now := time.Now()
	donor.CreatedAt = now
	donor.UpdatedAt = now

	query, args, err := psql().
		Insert(donorTableName).
		SetMap(utils.StructToMap(donor)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}

	return nil
}

func (r *DonorRepository) Upsert(ctx context.Context, donor *types.Donor) error {
	now := time.Now()
	donor.CreatedAt = now
	donor.UpdatedAt = now

	query, args, err := psql().
		Insert(donorTableName).
		SetMap(utils.StructToMap(donor)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET fname = EXCLUDED.fname, lname = EXCLUDED.lname, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert donor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert donor: %w", err)
	}

	return nil
}

func (r *DonorRepository) UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Donor, error) {
	return r.update(ctx, userID, map[string]any{"address": address})
}

func (r *DonorRepository) UpdateImage(ctx context.Context, userID, imageURL string) (*types.Donor, error) {
	return r.update(ctx, userID, map[string]any{"image_url": imageURL})
}

func (r *DonorRepository) update(ctx context.Context, userID string, values map[string]any) (*types.Donor, error) {
	values["updated_at"] = time.Now()

	query, args, err := psql().
		Update(donorTableName).
		SetMap(values).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returning(donorColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update donor query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to update donor: %w", err)
	}

	return &donor, nil
}
