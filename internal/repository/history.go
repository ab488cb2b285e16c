package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

// DefaultHistoryLimit caps how many past interactions are read per user.
const DefaultHistoryLimit = 200

type HistoryRepository struct {
	pool  *pgxpool.Pool
	limit int
}

func NewHistoryRepository(pool *pgxpool.Pool, limit int) *HistoryRepository {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryRepository{pool: pool, limit: limit}
}

// FindUserHistory returns the user's most recent interactions joined with
// the attributes of the service they touched, newest first.
func (r *HistoryRepository) FindUserHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id::text, s.category, s.location, COALESCE(s.price, 0)::float8, s.event_types,
		        ui.interaction, ui.occurred_at
		 FROM user_interactions ui
		 JOIN services s ON s.id = ui.service_id
		 WHERE ui.user_id = $1
		 ORDER BY ui.occurred_at DESC, ui.id DESC
		 LIMIT $2`,
		userID, r.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query user history: %w", err)
	}
	defer rows.Close()

	history := []domain.HistoryEntry{}
	for rows.Next() {
		var (
			h           domain.HistoryEntry
			category    string
			interaction string
		)
		if err := rows.Scan(&h.ServiceID, &category, &h.Location, &h.Price, &h.EventTypes, &interaction, &h.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		h.Category = domain.ServiceCategory(category)
		h.Interaction = domain.InteractionType(interaction)
		history = append(history, h)
	}
	return history, rows.Err()
}
