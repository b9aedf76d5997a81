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

const feedbackTableName = "giventake.feedback"

var feedbackColumns = utils.StructTagValues(types.Feedback{})

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) FeedbackByDonationIDs(ctx context.Context, donationIDs []string) ([]*types.Feedback, error) {
	if len(donationIDs) == 0 {
		return []*types.Feedback{}, nil
	}

	query, args, err := psql().
		Select(feedbackColumns...).
		From(feedbackTableName).
		Where(sq.Eq{"donation_id": donationIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate feedback query: %w", err)
	}

	var feedback []*types.Feedback
	err = pgxscan.Select(ctx, r.pool, &feedback, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	return feedback, nil
}

// Upsert keeps one feedback row per donation.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *types.Feedback) error {
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	query, args, err := psql().
		Insert(feedbackTableName).
		SetMap(utils.StructToMap(feedback)).
		Suffix("ON CONFLICT (donation_id) DO UPDATE SET description = EXCLUDED.description, image = EXCLUDED.image, people_helped = EXCLUDED.people_helped, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert feedback query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert feedback: %w", err)
	}

	return nil
}
