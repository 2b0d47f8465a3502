package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("not found")

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) ListLocations() ([]domain.Location, error) {
	var out []domain.Location
	err := r.db.Select(&out, `SELECT id, name, rows, columns, cell_size, token_value, background_image FROM locations ORDER BY id`)
	return out, err
}

func (r *Repos) GetLocation(id int64) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.Get(&loc, `SELECT id, name, rows, columns, cell_size, token_value, background_image FROM locations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &loc, err
}

func (r *Repos) UpdateLocationSettings(id int64, rows, columns, cellSize int, tokenValue float64) error {
	res, err := r.db.Exec(`UPDATE locations SET rows = $2, columns = $3, cell_size = $4, token_value = $5 WHERE id = $1`,
		id, rows, columns, cellSize, tokenValue)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repos) ListCategories() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id, name, icon FROM categories ORDER BY name`)
	return out, err
}

func (r *Repos) GetUserByPIN(pin string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT id, name, pin, role, email, phone, notify FROM users WHERE pin = $1`, pin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

const machineCols = `id, name, status, x, y, icon, cabinet_pic, poc_name, poc_email, poc_phone, category_id, location_id`

func (r *Repos) ListMachines(locationID int64) ([]domain.Machine, error) {
	var out []domain.Machine
	err := r.db.Select(&out, `SELECT `+machineCols+` FROM machines WHERE location_id = $1 ORDER BY name`, locationID)
	return out, err
}

func (r *Repos) ListAllMachines() ([]domain.Machine, error) {
	var out []domain.Machine
	err := r.db.Select(&out, `SELECT `+machineCols+` FROM machines ORDER BY name`)
	return out, err
}

func (r *Repos) GetMachine(id int64) (*domain.Machine, error) {
	var m domain.Machine
	err := r.db.Get(&m, `SELECT `+machineCols+` FROM machines WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *Repos) UpdateMachineStatus(id int64, status domain.MachineStatus) error {
	res, err := r.db.Exec(`UPDATE machines SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ConversionRate returns the token value of the machine's location, or 1.0
// when the machine is unassigned.
func (r *Repos) ConversionRate(machineID int64) (float64, error) {
	var rate float64
	err := r.db.Get(&rate, `
		SELECT COALESCE(l.token_value, 1.0)
		FROM machines m LEFT JOIN locations l ON l.id = m.location_id
		WHERE m.id = $1`, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return rate, err
}

func (r *Repos) InsertStatusEvent(ev *domain.StatusEvent) error {
	return r.db.QueryRow(`
		INSERT INTO status_events(machine_id, user_id, timestamp, action, status, comment)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		ev.MachineID, ev.UserID, ev.Timestamp, ev.Action, ev.Status, ev.Comment).Scan(&ev.ID)
}

// StatusEventsAsc returns the machine's full status history, oldest first.
// Ties on timestamp keep insertion order via the id column.
func (r *Repos) StatusEventsAsc(machineID int64) ([]domain.StatusEvent, error) {
	var out []domain.StatusEvent
	err := r.db.Select(&out, `
		SELECT id, machine_id, user_id, timestamp, action, status, comment
		FROM status_events WHERE machine_id = $1 ORDER BY timestamp, id`, machineID)
	return out, err
}

func (r *Repos) StatusEventsDesc(machineID int64, limit int) ([]domain.StatusEvent, error) {
	var out []domain.StatusEvent
	err := r.db.Select(&out, `
		SELECT id, machine_id, user_id, timestamp, action, status, comment
		FROM status_events WHERE machine_id = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`, machineID, limit)
	return out, err
}

func (r *Repos) InsertRevenueEvent(ev *domain.RevenueEvent) error {
	return r.db.QueryRow(`
		INSERT INTO revenue_events(machine_id, user_id, timestamp, amount, is_token, period)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		ev.MachineID, ev.UserID, ev.Timestamp, ev.Amount, ev.IsToken, ev.Period).Scan(&ev.ID)
}

// RevenueEventsAsc returns collections with timestamp in [from, to], oldest
// first. The closed upper bound lets the distributed series attribute a
// collection recorded exactly at the window end to the time it covers.
func (r *Repos) RevenueEventsAsc(machineID int64, from, to time.Time) ([]domain.RevenueEvent, error) {
	var out []domain.RevenueEvent
	err := r.db.Select(&out, `
		SELECT id, machine_id, user_id, timestamp, amount, is_token, period
		FROM revenue_events
		WHERE machine_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp, id`, machineID, from, to)
	return out, err
}

func (r *Repos) RevenueEventsDesc(machineID int64, limit int) ([]domain.RevenueEvent, error) {
	var out []domain.RevenueEvent
	err := r.db.Select(&out, `
		SELECT id, machine_id, user_id, timestamp, amount, is_token, period
		FROM revenue_events WHERE machine_id = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`, machineID, limit)
	return out, err
}

// LastRevenueEventBefore returns the timestamp of the most recent collection
// strictly before t, with ok=false when the machine has none.
func (r *Repos) LastRevenueEventBefore(machineID int64, t time.Time) (time.Time, bool, error) {
	var ts time.Time
	err := r.db.Get(&ts, `
		SELECT timestamp FROM revenue_events
		WHERE machine_id = $1 AND timestamp < $2
		ORDER BY timestamp DESC, id DESC LIMIT 1`, machineID, t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	return ts, err == nil, err
}
