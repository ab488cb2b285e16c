package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

const candidateColumns = `id::text, name, category, price::float8, location, capacity,
	event_types, status, description, COALESCE(image_key, ''), updated_at`

// FindApprovedCandidates returns every APPROVED service in the category.
// A NULL price is returned as zero so the engine can report it as skipped.
func (r *CandidateRepository) FindApprovedCandidates(ctx context.Context, category domain.ServiceCategory) ([]*domain.Candidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM services
		 WHERE category = $1 AND status = $2
		 ORDER BY id`,
		string(category), string(domain.ServiceStatusApproved),
	)
	if err != nil {
		return nil, fmt.Errorf("query approved candidates: %w", err)
	}
	defer rows.Close()

	candidates := []*domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		c          domain.Candidate
		category   string
		status     string
		price      *float64
		capacity   *int32
		eventTypes []string
	)
	if err := row.Scan(
		&c.ID, &c.Name, &category, &price, &c.Location, &capacity,
		&eventTypes, &status, &c.Description, &c.ImageKey, &c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan candidate: %w", err)
	}

	c.Category = domain.ServiceCategory(category)
	c.Status = domain.ServiceStatus(status)
	if price != nil {
		c.Price = *price
	}
	if capacity != nil {
		v := int(*capacity)
		c.Capacity = &v
	}
	c.EventTypes = eventTypes
	return &c, nil
}
