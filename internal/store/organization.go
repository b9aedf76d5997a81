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

const organizationTableName = "giventake.organizations"

var organizationColumns = utils.StructTagValues(types.Organization{})

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Organization(ctx context.Context, userID string) (*types.Organization, error) {
	return r.organization(ctx, sq.Eq{"user_id": userID})
}

func (r *OrganizationRepository) OrganizationByLicense(ctx context.Context, licenseNo string) (*types.Organization, error) {
	return r.organization(ctx, sq.Eq{"license_no": licenseNo})
}

func (r *OrganizationRepository) organization(ctx context.Context, where sq.Eq) (*types.Organization, error) {
	query, args, err := psql().
		Select(organizationColumns...).
		From(organizationTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization query: %w", err)
	}

	var org types.Organization
	err = pgxscan.Get(ctx, r.pool, &org, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	return &org, nil
}

func (r *OrganizationRepository) OrganizationsByIDs(ctx context.Context, userIDs []string) ([]*types.Organization, error) {
	if len(userIDs) == 0 {
		return []*types.Organization{}, nil
	}
	return r.organizations(ctx, sq.Eq{"user_id": userIDs})
}

func (r *OrganizationRepository) Organizations(ctx context.Context) ([]*types.Organization, error) {
	return r.organizations(ctx, nil)
}

func (r *OrganizationRepository) organizations(ctx context.Context, where sq.Sqlizer) ([]*types.Organization, error) {
	builder := psql().
		Select(organizationColumns...).
		From(organizationTableName).
		OrderBy("name ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organizations query: %w", err)
	}

	var orgs []*types.Organization
	err = pgxscan.Select(ctx, r.pool, &orgs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	return orgs, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org *types.Organization) error {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now

	query, args, err := psql().
		Insert(organizationTableName).
		SetMap(utils.StructToMap(org)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) Upsert(ctx context.Context, org *types.Organization) error {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now

	query, args, err := psql().
		Insert(organizationTableName).
		SetMap(utils.StructToMap(org)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert organization: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) UpdateAddress(ctx context.Context, userID string, address json.RawMessage) (*types.Organization, error) {
	return r.update(ctx, userID, map[string]any{"address": address})
}

func (r *OrganizationRepository) UpdateImage(ctx context.Context, userID, imageURL string) (*types.Organization, error) {
	return r.update(ctx, userID, map[string]any{"image_url": imageURL})
}

func (r *OrganizationRepository) UpdateStatus(ctx context.Context, userID string, status types.OrganizationStatus) (*types.Organization, error) {
	return r.update(ctx, userID, map[string]any{"status": status})
}

// UpdateInfo applies the set fields of update and inserts bankDetails in one
// transaction.
func (r *OrganizationRepository) UpdateInfo(ctx context.Context, userID string, update types.OrganizationUpdate, bankDetails []*types.BankDetail) (*types.Organization, error) {
	now := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx for organization update: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	values := utils.StructToUpdateMap(update)
	values["updated_at"] = now

	query, args, err := psql().
		Update(organizationTableName).
		SetMap(values).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returning(organizationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update organization query: %w", err)
	}

	var org types.Organization
	err = pgxscan.Get(ctx, tx, &org, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	if len(bankDetails) > 0 {
		insert := psql().Insert(bankDetailTableName).Columns(bankDetailColumns...)
		for _, detail := range bankDetails {
			detail.OrgID = userID
			detail.CreatedAt = now
			insert = insert.Values(detail.ID, detail.OrgID, detail.AccountTitle, detail.BankName, detail.AccountNumber, detail.IBAN, detail.CreatedAt)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to generate bank details insert: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to insert bank details: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit organization update tx: %w", err)
	}

	return &org, nil
}

func (r *OrganizationRepository) update(ctx context.Context, userID string, values map[string]any) (*types.Organization, error) {
	values["updated_at"] = time.Now()

	query, args, err := psql().
		Update(organizationTableName).
		SetMap(values).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returning(organizationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update organization query: %w", err)
	}

	var org types.Organization
	err = pgxscan.Get(ctx, r.pool, &org, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return &org, nil
}
