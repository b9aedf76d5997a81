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

const donationTableName = "giventake.donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation types.Donation
	err = pgxscan.Get(ctx, r.pool, &donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	return &donation, nil
}

func (r *DonationRepository) DonationsByIDs(ctx context.Context, donationIDs []string) ([]*types.Donation, error) {
	if len(donationIDs) == 0 {
		return []*types.Donation{}, nil
	}
	return r.donations(ctx, sq.Eq{"id": donationIDs})
}

// Donations lists donations matching filter, newest first.
func (r *DonationRepository) Donations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error) {
	where := sq.And{}
	if filter.DonorID != "" {
		where = append(where, sq.Eq{"donor_id": filter.DonorID})
	}
	if filter.OrgID != "" {
		where = append(where, sq.Eq{"org_id": filter.OrgID})
	}
	if filter.CampaignID != "" {
		where = append(where, sq.Eq{"campaign_id": filter.CampaignID})
	}
	if len(filter.Statuses) > 0 {
		where = append(where, sq.Eq{"status": filter.Statuses})
	}
	if filter.HasCampaign != nil {
		if *filter.HasCampaign {
			where = append(where, sq.NotEq{"campaign_id": nil})
		} else {
			where = append(where, sq.Eq{"campaign_id": nil})
		}
	}

	return r.donations(ctx, where)
}

func (r *DonationRepository) donations(ctx context.Context, where sq.Sqlizer) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var donations []*types.Donation
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return donations, nil
}

func (r *DonationRepository) Create(ctx context.Context, donation *types.Donation) error {
	now := time.Now()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) Update(ctx context.Context, donationID string, update types.DonationUpdate) (*types.Donation, error) {
	values := utils.StructToUpdateMap(update)
	values["updated_at"] = time.Now()

	query, args, err := psql().
		Update(donationTableName).
		SetMap(values).
		Where(sq.Eq{"id": donationID}).
		Suffix(returning(donationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update donation query: %w", err)
	}

	var donation types.Donation
	err = pgxscan.Get(ctx, r.pool, &donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	return &donation, nil
}

// Delete removes the header. Deleting a missing id is not an error.
func (r *DonationRepository) Delete(ctx context.Context, donationID string) error {
	query, args, err := psql().
		Delete(donationTableName).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	return nil
}
