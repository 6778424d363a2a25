package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

var donationColumns = []string{
	"id", "donor_id", "COALESCE(receiver_id::text, '')", "full_name", "contact_number",
	"food_type", "item_name", "weight", "cooking_date", "expiry_date",
	"storage_instructions", "pickup_address", "food_image", "food_image_id",
	"status", "created_at", "updated_at",
}

// DonationRepository handles food_donations rows
type DonationRepository struct {
	db  DBTX
	now func() time.Time
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	var status string
	err := row.Scan(
		&d.ID, &d.DonorID, &d.ReceiverID, &d.FullName, &d.ContactNumber,
		&d.FoodType, &d.ItemName, &d.Weight, &d.CookingDate, &d.ExpiryDate,
		&d.StorageInstructions, &d.PickupAddress, &d.FoodImage, &d.FoodImageID,
		&status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = models.DonationStatus(status)
	return &d, nil
}

// Insert stores a new donation
func (r *DonationRepository) Insert(ctx context.Context, donation *models.Donation) (*models.Donation, error) {
	stored := *donation
	stored.ID = uuid.New().String()
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	sql, args, err := psql.Insert("food_donations").
		Columns(
			"id", "donor_id", "full_name", "contact_number", "food_type", "item_name", "weight",
			"cooking_date", "expiry_date", "storage_instructions", "pickup_address",
			"food_image", "food_image_id", "status", "created_at", "updated_at",
		).
		Values(
			stored.ID, stored.DonorID, stored.FullName, stored.ContactNumber, stored.FoodType, stored.ItemName, stored.Weight,
			stored.CookingDate, stored.ExpiryDate, stored.StorageInstructions, stored.PickupAddress,
			stored.FoodImage, stored.FoodImageID, string(stored.Status), stored.CreatedAt, stored.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building insert donation SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("error inserting donation: %w", err)
	}
	return &stored, nil
}

// FindAll lists donations in insertion order
func (r *DonationRepository) FindAll(ctx context.Context) ([]*models.Donation, error) {
	return r.list(ctx, nil)
}

// FindByStatus lists donations in a given state
func (r *DonationRepository) FindByStatus(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status)})
}

func (r *DonationRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Donation, error) {
	q := psql.Select(donationColumns...).From("food_donations").OrderBy("seq ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list donations SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning donation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donations: %w", err)
	}
	return out, nil
}

// FindByID retrieves a donation
func (r *DonationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	sql, args, err := psql.Select(donationColumns...).From("food_donations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building find donation SQL: %w", err)
	}

	d, err := scanDonation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error finding donation: %w", err)
	}
	return d, nil
}

// ConditionalUpdateStatus runs UPDATE ... WHERE status = expected. When no row
// comes back an existence check tells a failed guard from a deleted donation.
func (r *DonationRepository) ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.DonationStatus, receiverID string) (*models.Donation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	sql, args, err := psql.Update("food_donations").
		Set("status", string(next)).
		Set("receiver_id", receiverID).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"id": id, "status": string(expected)}).
		Suffix("RETURNING " + strings.Join(donationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building update donation SQL: %w", err)
	}

	d, err := scanDonation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.guardFailure(ctx, id)
		}
		return nil, fmt.Errorf("error updating donation status: %w", err)
	}
	return d, nil
}

func (r *DonationRepository) guardFailure(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM food_donations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking donation: %w", err)
	}
	if !exists {
		return apperrors.ErrResourceNotFound
	}
	return apperrors.ErrConflict
}

// DeleteByID removes a donation, reporting whether it existed
func (r *DonationRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	sql, args, err := psql.Delete("food_donations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("error building delete donation SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting donation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
