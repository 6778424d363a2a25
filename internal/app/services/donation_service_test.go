package services

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appauth "github.com/ecoshare/backend/internal/app/auth"
	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

func validDonation() *dto.CreateDonationRequest {
	return &dto.CreateDonationRequest{
		FullName:      "Jane Doe",
		ContactNumber: "555-0100",
		FoodType:      "Cooked",
		ItemName:      "Rice",
		Weight:        "2kg",
		CookingDate:   "2024-05-01",
		ExpiryDate:    "2024-05-03",
		PickupAddress: "12 Green St",
	}
}

func TestDonationService_Create(t *testing.T) {
	f := newFixture(t)
	donor := newUser(models.RoleUser)

	got, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, donor.ID, got.DonorID)
	assert.Equal(t, "available", got.Status)
	assert.Empty(t, got.ReceiverID)
	assert.True(t, got.CookingDate.Before(got.ExpiryDate))
}

func TestDonationService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	donor := newUser(models.RoleUser)

	tests := []struct {
		name   string
		mutate func(r *dto.CreateDonationRequest)
	}{
		{"blank name", func(r *dto.CreateDonationRequest) { r.FullName = "   " }},
		{"missing address", func(r *dto.CreateDonationRequest) { r.PickupAddress = "" }},
		{"expiry before cooking", func(r *dto.CreateDonationRequest) { r.ExpiryDate = "2024-04-30" }},
		{"expiry equals cooking", func(r *dto.CreateDonationRequest) { r.ExpiryDate = r.CookingDate }},
		{"unparseable date", func(r *dto.CreateDonationRequest) { r.CookingDate = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDonation()
			tt.mutate(req)
			_, err := f.svc.DonationService.Create(context.Background(), donor, req, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	all, err := f.svc.DonationService.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDonationService_CreateWithImage(t *testing.T) {
	f := newFixture(t)
	donor := newUser(models.RoleUser)
	src := &imagehost.Source{Reader: bytes.NewReader([]byte("png")), Filename: "food.png", Size: 3}

	got, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), src)
	require.NoError(t, err)
	assert.Contains(t, got.FoodImage, "https://img.test/donations/")
	assert.Len(t, f.host.uploads, 1)
}

func TestDonationService_CreateImageFailures(t *testing.T) {
	f := newFixture(t)
	donor := newUser(models.RoleUser)
	src := &imagehost.Source{Filename: "food.gif"}

	f.host.uploadErr = imagehost.ErrInvalidImage
	_, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), src)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	f.host.uploadErr = imagehost.ErrFetchFailed
	_, err = f.svc.DonationService.Create(context.Background(), donor, validDonation(), src)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
}

func TestDonationService_CreateReleasesImageWhenInsertFails(t *testing.T) {
	repo := new(mockDonationRepository)
	host := &fakeHost{}
	svc := NewDonationService(repo, host, appauth.NewPolicy(), zerolog.Nop())
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil, errStoreDown)

	src := &imagehost.Source{Reader: bytes.NewReader([]byte("png")), Filename: "food.png", Size: 3}
	_, err := svc.Create(context.Background(), newUser(models.RoleUser), validDonation(), src)

	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
	assert.Equal(t, "Failed to create food donation", err.Error())
	assert.Len(t, host.deletes, 1)
	repo.AssertExpectations(t)
}

func TestDonationService_ListAvailableIsFilteredListAll(t *testing.T) {
	f := newFixture(t)
	donor, receiver := newUser(models.RoleUser), newUser(models.RoleUser)

	var ids []string
	for i := 0; i < 3; i++ {
		d, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), nil)
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}
	_, err := f.svc.DonationService.Claim(context.Background(), receiver, ids[1])
	require.NoError(t, err)

	all, err := f.svc.DonationService.ListAll(context.Background())
	require.NoError(t, err)
	available, err := f.svc.DonationService.ListAvailable(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, ids, []string{all[0].ID, all[1].ID, all[2].ID})

	var want []string
	for _, d := range all {
		if d.Status == "available" {
			want = append(want, d.ID)
		}
	}
	var got []string
	for _, d := range available {
		got = append(got, d.ID)
	}
	assert.Equal(t, want, got)
}

func TestDonationService_Claim(t *testing.T) {
	f := newFixture(t)
	donor, claimant, late := newUser(models.RoleUser), newUser(models.RoleUser), newUser(models.RoleUser)

	d, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), nil)
	require.NoError(t, err)

	_, err = f.svc.DonationService.Claim(context.Background(), donor, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	claimed, err := f.svc.DonationService.Claim(context.Background(), claimant, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "claimed", claimed.Status)
	assert.Equal(t, claimant.ID, claimed.ReceiverID)

	_, err = f.svc.DonationService.Claim(context.Background(), late, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// self-claim stays forbidden after the donation is claimed
	_, err = f.svc.DonationService.Claim(context.Background(), donor, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDonationService_ClaimLookupErrors(t *testing.T) {
	f := newFixture(t)
	claimant := newUser(models.RoleUser)

	_, err := f.svc.DonationService.Claim(context.Background(), claimant, "8a7c4bde-2f55-4a8e-9a38-0b8f64c2d111")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.DonationService.Claim(context.Background(), claimant, "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDonationService_ClaimLostRace(t *testing.T) {
	repo := new(mockDonationRepository)
	svc := NewDonationService(repo, &fakeHost{}, appauth.NewPolicy(), zerolog.Nop())
	claimant := newUser(models.RoleUser)
	d := &models.Donation{ID: "d1", DonorID: "someone-else", Status: models.DonationAvailable}

	repo.On("FindByID", mock.Anything, "d1").Return(d, nil)
	repo.On("ConditionalUpdateStatus", mock.Anything, "d1", models.DonationAvailable, models.DonationClaimed, claimant.ID).
		Return(nil, apperrors.ErrConflict)

	_, err := svc.Claim(context.Background(), claimant, "d1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertExpectations(t)
}

func TestDonationService_ClaimAfterDeletion(t *testing.T) {
	repo := new(mockDonationRepository)
	svc := NewDonationService(repo, &fakeHost{}, appauth.NewPolicy(), zerolog.Nop())
	claimant := newUser(models.RoleUser)
	d := &models.Donation{ID: "d1", DonorID: "someone-else", Status: models.DonationAvailable}

	repo.On("FindByID", mock.Anything, "d1").Return(d, nil)
	repo.On("ConditionalUpdateStatus", mock.Anything, "d1", models.DonationAvailable, models.DonationClaimed, claimant.ID).
		Return(nil, apperrors.ErrResourceNotFound)

	_, err := svc.Claim(context.Background(), claimant, "d1")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	repo.AssertExpectations(t)
}

func TestDonationService_ConcurrentClaimsSucceedOnce(t *testing.T) {
	f := newFixture(t)
	donor := newUser(models.RoleUser)
	d, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), nil)
	require.NoError(t, err)

	const claimants = 32
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.DonationService.Claim(context.Background(), newUser(models.RoleUser), d.ID)
			switch {
			case err == nil:
				wins.Add(1)
			case apperrors.Is(err, apperrors.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(claimants-1), conflicts.Load())
}

func TestDonationService_Delete(t *testing.T) {
	f := newFixture(t)
	donor, other := newUser(models.RoleUser), newUser(models.RoleUser)
	src := &imagehost.Source{Reader: bytes.NewReader([]byte("png")), Filename: "food.png", Size: 3}

	d, err := f.svc.DonationService.Create(context.Background(), donor, validDonation(), src)
	require.NoError(t, err)
	_, err = f.svc.DonationService.Claim(context.Background(), other, d.ID)
	require.NoError(t, err)

	err = f.svc.DonationService.Delete(context.Background(), other, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.svc.DonationService.Delete(context.Background(), donor, d.ID))
	assert.Len(t, f.host.deletes, 1)

	err = f.svc.DonationService.Delete(context.Background(), donor, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDonationService_DeleteVanishedBetweenReadAndDelete(t *testing.T) {
	repo := new(mockDonationRepository)
	svc := NewDonationService(repo, &fakeHost{}, appauth.NewPolicy(), zerolog.Nop())
	donor := newUser(models.RoleUser)

	repo.On("FindByID", mock.Anything, "d1").Return(&models.Donation{ID: "d1", DonorID: donor.ID}, nil)
	repo.On("DeleteByID", mock.Anything, "d1").Return(false, nil)

	err := svc.Delete(context.Background(), donor, "d1")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDonationService_StoreFailureIsUpstream(t *testing.T) {
	repo := new(mockDonationRepository)
	svc := NewDonationService(repo, &fakeHost{}, appauth.NewPolicy(), zerolog.Nop())
	repo.On("FindAll", mock.Anything).Return(nil, errStoreDown)

	_, err := svc.ListAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestDonationLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	u1, u2, u3 := newUser(models.RoleUser), newUser(models.RoleUser), newUser(models.RoleUser)

	d, err := f.svc.DonationService.Create(context.Background(), u1, validDonation(), nil)
	require.NoError(t, err)

	available, err := f.svc.DonationService.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, d.ID, available[0].ID)

	claimed, err := f.svc.DonationService.Claim(context.Background(), u2, d.ID)
	require.NoError(t, err)
	assert.Equal(t, u2.ID, claimed.ReceiverID)

	available, err = f.svc.DonationService.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = f.svc.DonationService.Claim(context.Background(), u3, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
