package preferences

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Fetch(ctx context.Context, ownerID, credential string) (*types.RawTastePreferences, error) {
	args := m.Called(ctx, ownerID, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RawTastePreferences), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, ownerID string) (*types.StoredPreferences, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredPreferences), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, ownerID string, params types.UpsertPreferencesParams) (*types.StoredPreferences, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredPreferences), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func setupPreferencesServiceTest() (*PreferencesServiceImpl, *MockSource, *MockRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := new(MockSource)
	repo := new(MockRepository)
	return NewPreferencesService(src, repo, logger), src, repo
}

func TestPreferencesServiceImpl_Resolve(t *testing.T) {
	ctx := context.Background()
	owner := types.Owner{ID: "owner-1", Credential: "Bearer abc"}

	t.Run("normalizes fetched record", func(t *testing.T) {
		service, src, _ := setupPreferencesServiceTest()
		src.On("Fetch", mock.Anything, "owner-1", "Bearer abc").
			Return(&types.RawTastePreferences{TouristSites: []string{"Museums"}, Diet: []string{"Vegetarian"}}, nil).Once()

		prefs, err := service.Resolve(ctx, owner, types.BudgetLow)
		require.NoError(t, err)
		assert.Equal(t, []string{"Museums"}, prefs.TravelSites)
		assert.Equal(t, []string{"Vegetarian"}, prefs.Diet)
		assert.Equal(t, []string{"Active"}, prefs.TravelStyle)
		assert.Equal(t, types.BudgetLow, prefs.Budget)
		src.AssertExpectations(t)
	})

	t.Run("no record yields defaults", func(t *testing.T) {
		service, src, _ := setupPreferencesServiceTest()
		src.On("Fetch", mock.Anything, "owner-1", "Bearer abc").Return(nil, nil).Once()

		prefs, err := service.Resolve(ctx, owner, types.BudgetAll)
		require.NoError(t, err)
		assert.Equal(t, Normalize(nil, types.BudgetAll), prefs)
	})

	t.Run("missing owner is unauthenticated", func(t *testing.T) {
		service, src, _ := setupPreferencesServiceTest()

		_, err := service.Resolve(ctx, types.Owner{}, types.BudgetAll)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
		src.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("source error is wrapped", func(t *testing.T) {
		service, src, _ := setupPreferencesServiceTest()
		srcErr := errors.New("connection refused")
		src.On("Fetch", mock.Anything, "owner-1", "Bearer abc").Return(nil, srcErr).Once()

		_, err := service.Resolve(ctx, owner, types.BudgetAll)
		require.Error(t, err)
		assert.True(t, errors.Is(err, srcErr))
		assert.Contains(t, err.Error(), "error fetching taste preferences:")
	})
}

func TestPreferencesServiceImpl_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("valid params are stored", func(t *testing.T) {
		service, _, repo := setupPreferencesServiceTest()
		params := types.UpsertPreferencesParams{Diet: []string{"Halal"}, StartTime: "07:45"}
		stored := &types.StoredPreferences{OwnerID: "owner-1"}
		repo.On("Upsert", ctx, "owner-1", params).Return(stored, nil).Once()

		got, err := service.Save(ctx, "owner-1", params)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertExpectations(t)
	})

	t.Run("bad clock time is rejected before storage", func(t *testing.T) {
		service, _, repo := setupPreferencesServiceTest()

		_, err := service.Save(ctx, "owner-1", types.UpsertPreferencesParams{EndTime: "10pm"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPreferences))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPreferencesServiceImpl_Reset(t *testing.T) {
	ctx := context.Background()
	service, _, repo := setupPreferencesServiceTest()
	repo.On("Delete", ctx, "owner-1").Return(types.ErrNotFound).Once()

	err := service.Reset(ctx, "owner-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	repo.AssertExpectations(t)
}
