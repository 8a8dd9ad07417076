package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"evcharging/backend/services/stations-api/internal/models"
	"evcharging/backend/services/stations-api/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  []*models.User
	nextID int64
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrConstraintViolation
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeStationRepo struct {
	stations map[int64]models.Station
	nextID   int64
	gets     int

	// beforeGet runs inside GetByID after the row has been read.
	beforeGet func()
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: make(map[int64]models.Station)}
}

func (r *fakeStationRepo) List(_ context.Context, filter models.StationFilter) ([]models.Station, error) {
	out := make([]models.Station, 0)
	for id := int64(1); id <= r.nextID; id++ {
		if st, ok := r.stations[id]; ok && matchesFilter(filter, st) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) GetByID(_ context.Context, id int64) (*models.Station, error) {
	r.gets++
	st, ok := r.stations[id]
	if r.beforeGet != nil {
		r.beforeGet()
	}
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	return &st, nil
}

func matchesFilter(f models.StationFilter, st models.Station) bool {
	if f.Status != nil && st.Status != *f.Status {
		return false
	}
	if f.ConnectorType != nil && st.ConnectorType != *f.ConnectorType {
		return false
	}
	if f.MinPower != nil && st.PowerOutput < *f.MinPower {
		return false
	}
	if f.MaxPower != nil && st.PowerOutput > *f.MaxPower {
		return false
	}
	return true
}

func (r *fakeStationRepo) Create(_ context.Context, in models.StationInput, ownerID int64) (*models.Station, error) {
	r.nextID++
	owner := ownerID
	st := models.Station{
		ID:            r.nextID,
		Name:          in.Name,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Status:        in.Status,
		PowerOutput:   in.PowerOutput,
		ConnectorType: in.ConnectorType,
		CreatedBy:     &owner,
		CreatedAt:     time.Now().UTC(),
	}
	r.stations[st.ID] = st
	return &st, nil
}

func (r *fakeStationRepo) Update(_ context.Context, id int64, in models.StationInput) (*models.Station, error) {
	st, ok := r.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	st.Name, st.Latitude, st.Longitude = in.Name, in.Latitude, in.Longitude
	st.Status, st.PowerOutput, st.ConnectorType = in.Status, in.PowerOutput, in.ConnectorType
	r.stations[id] = st
	return &st, nil
}

func (r *fakeStationRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.stations[id]; !ok {
		return false, nil
	}
	delete(r.stations, id)
	return true, nil
}

type fakeCache struct {
	items   map[int64]models.Station
	deletes []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[int64]models.Station)}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*models.Station, bool) {
	st, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return &st, true
}

func (c *fakeCache) Set(_ context.Context, st *models.Station) {
	c.items[st.ID] = *st
}

func (c *fakeCache) Delete(_ context.Context, id int64) {
	c.deletes = append(c.deletes, id)
	delete(c.items, id)
}

type recordingPublisher struct {
	events []models.StationEvent
}

func (p *recordingPublisher) Publish(event models.StationEvent) {
	p.events = append(p.events, event)
}
