package memory

import (
	"context"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// DonationRepository is the in-memory IDonationRepository.
type DonationRepository struct {
	s *Store
}

// NewDonationRepository creates a DonationRepository over s.
func NewDonationRepository(s *Store) *DonationRepository {
	return &DonationRepository{s: s}
}

func (r *DonationRepository) Insert(_ context.Context, donation *models.Donation) (*models.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := copyDonation(donation)
	stored.ID = newID()
	now := r.s.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.donations[stored.ID] = stored
	r.s.donationOrder = append(r.s.donationOrder, stored.ID)
	return copyDonation(stored), nil
}

func (r *DonationRepository) FindAll(_ context.Context) ([]*models.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Donation, 0, len(r.s.donationOrder))
	for _, id := range r.s.donationOrder {
		out = append(out, copyDonation(r.s.donations[id]))
	}
	return out, nil
}

func (r *DonationRepository) FindByStatus(_ context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Donation, 0)
	for _, id := range r.s.donationOrder {
		if d := r.s.donations[id]; d.Status == status {
			out = append(out, copyDonation(d))
		}
	}
	return out, nil
}

func (r *DonationRepository) FindByID(_ context.Context, id string) (*models.Donation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.donations[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return copyDonation(d), nil
}

func (r *DonationRepository) ConditionalUpdateStatus(_ context.Context, id string, expected, next models.DonationStatus, receiverID string) (*models.Donation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if d.Status != expected {
		return nil, apperrors.ErrConflict
	}
	d.Status = next
	d.ReceiverID = receiverID
	d.UpdatedAt = r.s.now()
	return copyDonation(d), nil
}

func (r *DonationRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.donations[id]; !ok {
		return false, nil
	}
	delete(r.s.donations, id)
	r.s.donationOrder = removeID(r.s.donationOrder, id)
	return true, nil
}
