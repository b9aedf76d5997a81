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

const bankDetailTableName = "giventake.bank_details"

var bankDetailColumns = utils.StructTagValues(types.BankDetail{})

type BankDetailRepository struct {
	pool *pgxpool.Pool
}

func NewBankDetailRepository(pool *pgxpool.Pool) *BankDetailRepository {
	return &BankDetailRepository{pool: pool}
}

func (r *BankDetailRepository) BankDetailsByOrg(ctx context.Context, orgID string) ([]*types.BankDetail, error) {
	query, args, err := psql().
		Select(bankDetailColumns...).
		From(bankDetailTableName).
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bank details query: %w", err)
	}

	var details []*types.BankDetail
	err = pgxscan.Select(ctx, r.pool, &details, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank details: %w", err)
	}

	return details, nil
}

func (r *BankDetailRepository) Create(ctx context.Context, detail *types.BankDetail) error {
	detail.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(bankDetailTableName).
		SetMap(utils.StructToMap(detail)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create bank detail query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create bank detail: %w", err)
	}

	return nil
}
