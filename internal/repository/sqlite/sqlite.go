// Package sqlite implements the meter-reading and occupancy repository
// (SPEC_FULL C6) against an embedded SQLite database, fulfilling the core's
// get_data_between contract.
//
// Grounded on generic_lib's DBSession (connect, ensure schema, parametrized
// CRUD) and adapted from the teacher's pkg/persist explicit Save/Load style
// into typed repository methods.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" //nolint:revive // driver registration side effect

	"github.com/nls04/meterledger/internal/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	date TEXT PRIMARY KEY,
	electricity REAL,
	gas REAL,
	water REAL
);
CREATE TABLE IF NOT EXISTS persons (
	name_id TEXT PRIMARY KEY,
	move_in TEXT NOT NULL,
	move_out TEXT
);
`

const dateLayout = "2006-01-02"

// Repository wraps a single-writer SQLite connection implementing the
// invoice orchestrator's Repository interface and the analyzer's reading
// source.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists. path may be ":memory:" for an ephemeral store.
//
// SQLite allows only one writer at a time, so the pool is capped at a
// single connection, matching the pattern used throughout the pack's
// mattn/go-sqlite3-backed repositories.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying connection.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close sqlite database: %w", err)
	}

	return nil
}

// AddReading inserts or replaces a reading, keyed by date. Whole-reading
// replacement (rather than a partial update) matches §3's data model.
func (r *Repository) AddReading(ctx context.Context, reading model.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO readings (date, electricity, gas, water) VALUES (?, ?, ?, ?)`,
		reading.Date.Format(dateLayout),
		nullableFloat(reading.Attributes[model.AttrElectricity]),
		nullableFloat(reading.Attributes[model.AttrGas]),
		nullableFloat(reading.Attributes[model.AttrWater]),
	)
	if err != nil {
		return fmt.Errorf("add reading: %w", err)
	}

	return nil
}

// RemoveReading deletes the reading dated date, if any.
func (r *Repository) RemoveReading(ctx context.Context, date time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE date = ?`, date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("remove reading: %w", err)
	}

	return nil
}

// AddPerson inserts or replaces a person record, keyed by name.
func (r *Repository) AddPerson(ctx context.Context, person model.Person) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO persons (name_id, move_in, move_out) VALUES (?, ?, ?)`,
		person.Name,
		person.MoveIn.Format(dateLayout),
		nullableDate(person.MoveOut),
	)
	if err != nil {
		return fmt.Errorf("add person: %w", err)
	}

	return nil
}

// RemovePerson deletes the person named name, if any.
func (r *Repository) RemovePerson(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE name_id = ?`, name)
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}

	return nil
}

// AllReadings returns every stored reading, ordered by date.
func (r *Repository) AllReadings(ctx context.Context) ([]model.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, electricity, gas, water FROM readings ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// AllPersons returns every stored person, ordered by move-in date.
func (r *Repository) AllPersons(ctx context.Context) ([]model.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name_id, move_in, move_out FROM persons ORDER BY move_in`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	return scanPersons(rows)
}

// GetDataBetween implements the core's get_data_between contract (§6):
// readings with lo <= date <= hi, and persons overlapping [lo, hi] at all
// (move_in <= hi AND move_out >= lo, treating an absent move_out as open-ended).
func (r *Repository) GetDataBetween(ctx context.Context, lo, hi time.Time) ([]model.Reading, []model.Person, error) {
	readingRows, err := r.db.QueryContext(ctx,
		`SELECT date, electricity, gas, water FROM readings WHERE date >= ? AND date <= ? ORDER BY date`,
		lo.Format(dateLayout), hi.Format(dateLayout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query readings between: %w", err)
	}

	readings, err := scanReadings(readingRows)
	readingRows.Close()

	if err != nil {
		return nil, nil, err
	}

	personRows, err := r.db.QueryContext(ctx,
		`SELECT name_id, move_in, move_out FROM persons
		 WHERE move_in <= ? AND (move_out IS NULL OR move_out >= ?)
		 ORDER BY move_in`,
		hi.Format(dateLayout), lo.Format(dateLayout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query persons between: %w", err)
	}
	defer personRows.Close()

	persons, err := scanPersons(personRows)
	if err != nil {
		return nil, nil, err
	}

	return readings, persons, nil
}

func scanReadings(rows *sql.Rows) ([]model.Reading, error) {
	var out []model.Reading

	for rows.Next() {
		var (
			dateStr                 string
			electricity, gas, water sql.NullFloat64
		)

		if err := rows.Scan(&dateStr, &electricity, &gas, &water); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse reading date: %w", err)
		}

		reading := model.Reading{Date: date}
		reading.Attributes[model.AttrElectricity] = fromNullFloat(electricity)
		reading.Attributes[model.AttrGas] = fromNullFloat(gas)
		reading.Attributes[model.AttrWater] = fromNullFloat(water)

		out = append(out, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}

	return out, nil
}

func scanPersons(rows *sql.Rows) ([]model.Person, error) {
	var out []model.Person

	for rows.Next() {
		var (
			name       string
			moveInStr  string
			moveOutStr sql.NullString
		)

		if err := rows.Scan(&name, &moveInStr, &moveOutStr); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}

		moveIn, err := time.Parse(dateLayout, moveInStr)
		if err != nil {
			return nil, fmt.Errorf("parse move_in: %w", err)
		}

		person := model.Person{Name: name, MoveIn: moveIn}

		if moveOutStr.Valid {
			moveOut, err := time.Parse(dateLayout, moveOutStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse move_out: %w", err)
			}

			person.MoveOut = &moveOut
		}

		out = append(out, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}

	return out, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}

	return *v
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	f := v.Float64

	return &f
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.Format(dateLayout)
}
