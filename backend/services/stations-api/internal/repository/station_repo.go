package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	libdb "evcharging/backend/libs/db"
	"evcharging/backend/services/stations-api/internal/models"
)

const stationColumns = `id, name, latitude, longitude, status, power_output, connector_type, created_by, created_at`

// StationRepository stores charging station rows.
type StationRepository struct {
	db *libdb.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *libdb.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns every station matching filter in insertion order.
func (r *StationRepository) List(ctx context.Context, filter models.StationFilter) ([]models.Station, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(expr string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.ConnectorType != nil {
		add("connector_type = $%d", *filter.ConnectorType)
	}
	if filter.MinPower != nil {
		add("power_output >= $%d", *filter.MinPower)
	}
	if filter.MaxPower != nil {
		add("power_output <= $%d", *filter.MaxPower)
	}

	query := `SELECT ` + stationColumns + ` FROM charging_stations`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}
	return stations, nil
}

// GetByID returns ErrStationNotFound when no row has the id.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	query := r.db.Dialect.Rebind(`SELECT ` + stationColumns + ` FROM charging_stations WHERE id = $1`)
	return scanStation(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts a station owned by ownerID (0 stores no owner) and returns the stored row.
func (r *StationRepository) Create(ctx context.Context, input models.StationInput, ownerID int64) (*models.Station, error) {
	query := r.db.Dialect.Rebind(`
		INSERT INTO charging_stations
			(name, latitude, longitude, status, power_output, connector_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		input.Name,
		input.Latitude,
		input.Longitude,
		string(input.Status),
		input.PowerOutput,
		input.ConnectorType,
		nullableID(ownerID),
		time.Now().UTC().Truncate(time.Microsecond),
	).Scan(&id)
	if err != nil {
		return nil, classifyWriteError("insert station", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces the editable fields of station id. created_by and created_at
// are left untouched.
func (r *StationRepository) Update(ctx context.Context, id int64, input models.StationInput) (*models.Station, error) {
	query := r.db.Dialect.Rebind(`
		UPDATE charging_stations
		SET name = $1, latitude = $2, longitude = $3,
		    status = $4, power_output = $5, connector_type = $6
		WHERE id = $7
	`)

	res, err := r.db.ExecContext(ctx, query,
		input.Name,
		input.Latitude,
		input.Longitude,
		string(input.Status),
		input.PowerOutput,
		input.ConnectorType,
		id,
	)
	if err != nil {
		return nil, classifyWriteError("update station", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("station update rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrStationNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes station id and reports whether a row was removed.
func (r *StationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := r.db.Dialect.Rebind(`DELETE FROM charging_stations WHERE id = $1`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete station: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("station delete rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored stations.
func (r *StationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_stations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stations: %w", err)
	}
	return n, nil
}

func scanStation(row interface {
	Scan(dest ...any) error
}) (*models.Station, error) {
	var (
		station   models.Station
		status    string
		createdBy sql.NullInt64
	)
	if err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Latitude,
		&station.Longitude,
		&status,
		&station.PowerOutput,
		&station.ConnectorType,
		&createdBy,
		&station.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("scan station: %w", err)
	}

	station.Status = models.StationStatus(status)
	station.CreatedAt = station.CreatedAt.UTC()
	if createdBy.Valid {
		owner := createdBy.Int64
		station.CreatedBy = &owner
	}
	return &station, nil
}

func classifyWriteError(op string, err error) error {
	if libdb.IsUniqueViolation(err) || libdb.IsCheckViolation(err) || libdb.IsValueTooLong(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
