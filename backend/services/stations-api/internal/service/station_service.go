package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/models"
)

// StationRepository defines station storage used by StationService.
type StationRepository interface {
	List(ctx context.Context, filter models.StationFilter) ([]models.Station, error)
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	Create(ctx context.Context, input models.StationInput, ownerID int64) (*models.Station, error)
	Update(ctx context.Context, id int64, input models.StationInput) (*models.Station, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// StationCache holds read-through copies of single stations. Implementations
// swallow their own failures.
type StationCache interface {
	Get(ctx context.Context, id int64) (*models.Station, bool)
	Set(ctx context.Context, station *models.Station)
	Delete(ctx context.Context, id int64)
}

// EventPublisher fans station changes out to subscribers.
type EventPublisher interface {
	Publish(event models.StationEvent)
}

// StationService wraps the repository with caching and change notification.
type StationService struct {
	repo      StationRepository
	cache     StationCache
	publisher EventPublisher
	logger    *zap.Logger

	// writes counts invalidations; a read only fills the cache if no write
	// landed between its repository read and the fill.
	fillMu sync.Mutex
	writes uint64
}

// NewStationService builds StationService. cache and publisher may be nil.
func NewStationService(repo StationRepository, cache StationCache, publisher EventPublisher, logger *zap.Logger) *StationService {
	if cache == nil {
		cache = nopCache{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &StationService{repo: repo, cache: cache, publisher: publisher, logger: logger}
}

// List returns stations matching filter.
func (s *StationService) List(ctx context.Context, filter models.StationFilter) ([]models.Station, error) {
	return s.repo.List(ctx, filter)
}

// Get returns station id, consulting the cache first.
func (s *StationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	if st, ok := s.cache.Get(ctx, id); ok {
		return st, nil
	}

	gen := s.generation()
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, st, gen)
	return st, nil
}

// Create stores a station owned by ownerID.
func (s *StationService) Create(ctx context.Context, input models.StationInput, ownerID int64) (*models.Station, error) {
	st, err := s.repo.Create(ctx, input, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("station created", zap.Int64("station_id", st.ID), zap.Int64("user_id", ownerID))
	s.publisher.Publish(models.StationEvent{Type: models.StationCreated, StationID: st.ID, Station: st})
	return st, nil
}

// Update replaces the editable fields of station id.
func (s *StationService) Update(ctx context.Context, id int64, input models.StationInput) (*models.Station, error) {
	st, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("station updated", zap.Int64("station_id", id))
	s.publisher.Publish(models.StationEvent{Type: models.StationUpdated, StationID: id, Station: st})
	return st, nil
}

// Delete removes station id and reports whether it existed.
func (s *StationService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, id)
	if !removed {
		return false, nil
	}

	s.logger.Info("station deleted", zap.Int64("station_id", id))
	s.publisher.Publish(models.StationEvent{Type: models.StationDeleted, StationID: id})
	return true, nil
}

func (s *StationService) generation() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.writes
}

func (s *StationService) fill(ctx context.Context, st *models.Station, gen uint64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.writes != gen {
		return
	}
	s.cache.Set(ctx, st)
}

func (s *StationService) invalidate(ctx context.Context, id int64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.writes++
	s.cache.Delete(ctx, id)
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (*models.Station, bool) { return nil, false }
func (nopCache) Set(context.Context, *models.Station)               {}
func (nopCache) Delete(context.Context, int64)                      {}

type nopPublisher struct{}

func (nopPublisher) Publish(models.StationEvent) {}
