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

const adminTableName = "giventake.admins"

var adminColumns = utils.StructTagValues(types.Admin{})

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Admin(ctx context.Context, userID string) (*types.Admin, error) {
	query, args, err := psql().
		Select(adminColumns...).
		From(adminTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin query: %w", err)
	}

	var admin types.Admin
	err = pgxscan.Get(ctx, r.pool, &admin, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin: %w", err)
	}

	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *types.Admin) error {
	admin.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(adminTableName).
		SetMap(utils.StructToMap(admin)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create admin query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}
