package review

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRepository is a Postgres-backed implementation of Repository.
// The schema is owned by the surrounding deployment; queries assume
// reviews and review_votes tables with the columns referenced below and
// a unique constraint on (review_id, voter_hash).
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new Postgres review repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reviewColumns = `id, entity_id, rating_clarity, rating_helpfulness,
	rating_overall, difficulty, would_take_again, tags, text, status,
	helpful_count, not_helpful_count, submitter_hash, created_at, updated_at`

func scanReview(scanner interface{ Scan(...any) error }) (*Review, error) {
	var review Review
	var tags pq.StringArray
	err := scanner.Scan(&review.ID, &review.EntityID, &review.RatingClarity,
		&review.RatingHelpfulness, &review.RatingOverall, &review.Difficulty,
		&review.WouldTakeAgain, &tags, &review.Text, &review.Status,
		&review.HelpfulCount, &review.NotHelpfulCount, &review.SubmitterHash,
		&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	review.Tags = tags
	return &review, nil
}

// Create inserts a new review with a generated UUID.
func (r *PostgresRepository) Create(review *Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	if err := ValidateStatus(review.Status); err != nil {
		return err
	}

	now := time.Now()
	review.ID = uuid.New().String()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO reviews
			(id, entity_id, rating_clarity, rating_helpfulness, rating_overall,
			 difficulty, would_take_again, tags, text, status, submitter_hash,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		review.ID, review.EntityID, review.RatingClarity, review.RatingHelpfulness,
		review.RatingOverall, review.Difficulty, review.WouldTakeAgain,
		pq.Array(review.Tags), review.Text, review.Status, review.SubmitterHash,
		review.CreatedAt, review.UpdatedAt,
	)
	return err
}

// GetByID retrieves a review by its UUID, excluding soft-deleted reviews.
func (r *PostgresRepository) GetByID(id string) (*Review, error) {
	row := r.db.QueryRow(`
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE id = $1 AND deleted_at IS NULL`, id)

	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListByEntity returns all non-deleted reviews for an entity, most-recent-first.
func (r *PostgresRepository) ListByEntity(entityID string) ([]Review, error) {
	rows, err := r.db.Query(`
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE entity_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListByStatus returns up to limit non-deleted reviews with the given status.
func (r *PostgresRepository) ListByStatus(status string, limit int) ([]Review, error) {
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows *sql.Rows) ([]Review, error) {
	results := make([]Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *review)
	}
	return results, rows.Err()
}

// SetStatus updates the moderation status of a review.
func (r *PostgresRepository) SetStatus(id, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE reviews
		SET status = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, status)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete soft-deletes a review by setting deleted_at.
func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(`
		UPDATE reviews
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Vote upserts a helpfulness vote and refreshes the denormalized counts.
func (r *PostgresRepository) Vote(reviewID, voterHash string, helpful bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1 AND deleted_at IS NULL)`,
		reviewID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrReviewNotFound
	}

	if _, err := tx.Exec(`
		INSERT INTO review_votes (review_id, voter_hash, helpful, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (review_id, voter_hash)
		DO UPDATE SET helpful = EXCLUDED.helpful`,
		reviewID, voterHash, helpful); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE reviews SET
			helpful_count = (SELECT count(*) FROM review_votes WHERE review_id = $1 AND helpful),
			not_helpful_count = (SELECT count(*) FROM review_votes WHERE review_id = $1 AND NOT helpful)
		WHERE id = $1`, reviewID); err != nil {
		return err
	}

	return tx.Commit()
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
