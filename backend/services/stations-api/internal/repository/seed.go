package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/models"
	"evcharging/backend/services/stations-api/internal/password"
)

// SeedAdmin describes the account created on an empty users table.
type SeedAdmin struct {
	Username string
	Email    string
	Password string
}

// SampleStations are inserted on an empty charging_stations table.
var SampleStations = []models.StationInput{
	{Name: "Downtown Charger", Latitude: 40.7128, Longitude: -74.0060, Status: models.StationStatusActive, PowerOutput: 50, ConnectorType: "CCS"},
	{Name: "Mall Charging Point", Latitude: 40.7580, Longitude: -73.9855, Status: models.StationStatusActive, PowerOutput: 150, ConnectorType: "CHAdeMO"},
	{Name: "Highway Station", Latitude: 40.6892, Longitude: -74.0445, Status: models.StationStatusInactive, PowerOutput: 350, ConnectorType: "Tesla"},
}

// Seeder fills an empty store with the admin account and sample stations.
type Seeder struct {
	users    *UserRepository
	stations *StationRepository
	hasher   password.Hasher
	logger   *zap.Logger
}

// NewSeeder builds Seeder.
func NewSeeder(users *UserRepository, stations *StationRepository, hasher password.Hasher, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, stations: stations, hasher: hasher, logger: logger}
}

// Seed is idempotent: each table is only touched while it is empty.
func (s *Seeder) Seed(ctx context.Context, admin SeedAdmin) error {
	ownerID, err := s.seedAdmin(ctx, admin)
	if err != nil {
		return err
	}

	count, err := s.stations.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, input := range SampleStations {
		if _, err := s.stations.Create(ctx, input, ownerID); err != nil {
			return fmt.Errorf("seed station %q: %w", input.Name, err)
		}
	}
	s.logger.Info("sample stations seeded", zap.Int("count", len(SampleStations)), zap.Int64("owner_id", ownerID))
	return nil
}

// seedAdmin returns the id owning the sample stations; 0 when the admin
// account is absent because other users already exist.
func (s *Seeder) seedAdmin(ctx context.Context, admin SeedAdmin) (int64, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		existing, err := s.users.GetByEmail(ctx, admin.Email)
		switch {
		case err == nil:
			return existing.ID, nil
		case errors.Is(err, ErrUserNotFound):
			return 0, nil
		default:
			return 0, err
		}
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return 0, fmt.Errorf("seed admin: %w", err)
	}
	user := &models.User{Username: admin.Username, Email: admin.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info("admin user seeded", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user.ID, nil
}
