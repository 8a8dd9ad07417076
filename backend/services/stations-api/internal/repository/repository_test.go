package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdb "evcharging/backend/libs/db"
	appdb "evcharging/backend/services/stations-api/internal/db"
	"evcharging/backend/services/stations-api/internal/models"
)

func newTestStore(t *testing.T) *libdb.DB {
	t.Helper()
	store, err := appdb.Open(context.Background(), libdb.DriverSQLite, filepath.Join(t.TempDir(), "stations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, repo *UserRepository, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func stationInput(name string, status models.StationStatus, power float64, connector string) models.StationInput {
	return models.StationInput{
		Name:          name,
		Latitude:      10,
		Longitude:     20,
		Status:        status,
		PowerOutput:   power,
		ConnectorType: connector,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	user := createUser(t, repo, " alice ", " Alice@Example.COM ")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))
	createUser(t, repo, "bob", "bob@example.com")

	err := repo.Create(ctx, &models.User{Username: "bob", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	err = repo.Create(ctx, &models.User{Username: "bobby", Email: "BOB@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestStationRepository_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createUser(t, NewUserRepository(store), "owner", "owner@example.com")
	repo := NewStationRepository(store)

	created, err := repo.Create(ctx, models.StationInput{
		Name:          "Depot A",
		Latitude:      0,
		Longitude:     0,
		Status:        models.StationStatusActive,
		PowerOutput:   22,
		ConnectorType: "Type 2",
	}, owner.ID)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Depot A", created.Name)
	assert.Equal(t, 0.0, created.Latitude)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, owner.ID, *created.CreatedBy)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Type 2", got.ConnectorType)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	updated, err := repo.Update(ctx, created.ID, stationInput("Depot B", models.StationStatusInactive, 50, "CCS"))
	require.NoError(t, err)
	assert.Equal(t, "Depot B", updated.Name)
	assert.Equal(t, models.StationStatusInactive, updated.Status)
	assert.Equal(t, owner.ID, *updated.CreatedBy)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrStationNotFound)

	removed, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStationRepository_UpdateMissing(t *testing.T) {
	repo := NewStationRepository(newTestStore(t))

	_, err := repo.Update(context.Background(), 999, stationInput("X", models.StationStatusActive, 10, "CCS"))
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestStationRepository_CheckConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewStationRepository(newTestStore(t))

	bad := stationInput("Bad", models.StationStatus("Broken"), 10, "CCS")
	_, err := repo.Create(ctx, bad, 0)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	bad = stationInput("Bad", models.StationStatusActive, 0, "CCS")
	_, err = repo.Create(ctx, bad, 0)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	bad = stationInput("Bad", models.StationStatusActive, 10, "CCS")
	bad.Latitude = 91
	_, err = repo.Create(ctx, bad, 0)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestStationRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStationRepository(newTestStore(t))

	inputs := []models.StationInput{
		stationInput("one", models.StationStatusActive, 50, "CCS"),
		stationInput("two", models.StationStatusActive, 150, "CHAdeMO"),
		stationInput("three", models.StationStatusInactive, 350, "Tesla"),
		stationInput("four", models.StationStatusActive, 22, "CCS"),
	}
	for _, in := range inputs {
		_, err := repo.Create(ctx, in, 0)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, models.StationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"one", "two", "three", "four"}, names(all))
	assert.Nil(t, all[0].CreatedBy)

	active := models.StationStatusActive
	minPower := 50.0
	filter := models.StationFilter{Status: &active, MinPower: &minPower}
	filtered, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, names(filtered))
	for _, st := range filtered {
		assert.Equal(t, models.StationStatusActive, st.Status)
		assert.GreaterOrEqual(t, st.PowerOutput, minPower)
	}

	connector := "CCS"
	maxPower := 40.0
	filtered, err = repo.List(ctx, models.StationFilter{ConnectorType: &connector, MaxPower: &maxPower})
	require.NoError(t, err)
	assert.Equal(t, []string{"four"}, names(filtered))

	missing := "Type 2"
	filtered, err = repo.List(ctx, models.StationFilter{ConnectorType: &missing})
	require.NoError(t, err)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func names(stations []models.Station) []string {
	out := make([]string, 0, len(stations))
	for _, st := range stations {
		out = append(out, st.Name)
	}
	return out
}
