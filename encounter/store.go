package encounter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS wild_tables (
	map  TEXT NOT NULL,
	time TEXT NOT NULL,
	area TEXT NOT NULL,
	rate INTEGER NOT NULL,
	PRIMARY KEY (map, time, area)
);
CREATE TABLE IF NOT EXISTS wild_slots (
	map       TEXT NOT NULL,
	time      TEXT NOT NULL,
	area      TEXT NOT NULL,
	slot      INTEGER NOT NULL,
	species   TEXT NOT NULL,
	min_level INTEGER NOT NULL,
	max_level INTEGER NOT NULL,
	PRIMARY KEY (map, time, area, slot),
	FOREIGN KEY (map, time, area) REFERENCES wild_tables (map, time, area) ON DELETE CASCADE
);`

// Store keeps wild encounter headers in SQLite.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps the pragmas below in force for every query.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveHeader replaces every table stored for h.Map.
func (s *Store) SaveHeader(ctx context.Context, h *Header) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wild_tables WHERE map = ?`, h.Map); err != nil {
		return fmt.Errorf("clear %s: %w", h.Map, err)
	}
	for _, t := range h.Tables {
		if !t.Time.Valid() || !t.Area.Valid() {
			return fmt.Errorf("table %s/%s on %s: invalid key", t.Time, t.Area, h.Map)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wild_tables (map, time, area, rate) VALUES (?, ?, ?, ?)`,
			h.Map, t.Time.String(), string(t.Area), t.Rate); err != nil {
			return fmt.Errorf("insert table %s/%s: %w", t.Time, t.Area, err)
		}
		for slot, m := range t.Mons {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO wild_slots (map, time, area, slot, species, min_level, max_level)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				h.Map, t.Time.String(), string(t.Area), slot, m.Species, m.MinLevel, m.MaxLevel); err != nil {
				return fmt.Errorf("insert slot %d: %w", slot, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("encounter header saved", zap.String("map", h.Map), zap.Int("tables", len(h.Tables)))
	return nil
}

// Header loads every table of a map. It returns ErrNoHeader when the map has
// none.
func (s *Store) Header(ctx context.Context, mapName string) (*Header, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.time, t.area, t.rate, s.species, s.min_level, s.max_level
		 FROM wild_tables t
		 LEFT JOIN wild_slots s ON s.map = t.map AND s.time = t.time AND s.area = t.area
		 WHERE t.map = ?
		 ORDER BY t.time, t.area, s.slot`, mapName)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", mapName, err)
	}
	defer rows.Close()

	h := &Header{Map: mapName}
	for rows.Next() {
		var (
			timeName, area string
			rate           int
			species        sql.NullString
			minLvl, maxLvl sql.NullInt64
		)
		if err := rows.Scan(&timeName, &area, &rate, &species, &minLvl, &maxLvl); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tod, err := ParseTimeOfDay(timeName)
		if err != nil {
			return nil, err
		}
		t := h.Lookup(Area(area), tod)
		if t == nil {
			h.Tables = append(h.Tables, Table{Time: tod, Area: Area(area), Rate: rate})
			t = &h.Tables[len(h.Tables)-1]
		}
		if species.Valid {
			t.Mons = append(t.Mons, WildMon{
				Species:  species.String,
				MinLevel: int(minLvl.Int64),
				MaxLevel: int(maxLvl.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(h.Tables) == 0 {
		return nil, fmt.Errorf("%s: %w", mapName, ErrNoHeader)
	}
	return h, nil
}

func (s *Store) Maps(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT map FROM wild_tables ORDER BY map`)
	if err != nil {
		return nil, fmt.Errorf("query maps: %w", err)
	}
	defer rows.Close()

	var maps []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// Viewer builds the viewer for mapName at time t. A map with no header gets
// an empty viewer.
func (s *Store) Viewer(ctx context.Context, mapName string, t TimeOfDay) (*Viewer, error) {
	h, err := s.Header(ctx, mapName)
	if errors.Is(err, ErrNoHeader) {
		v := NewViewer(nil, t)
		v.Map = mapName
		return v, nil
	}
	if err != nil {
		return nil, err
	}
	return NewViewer(h, t), nil
}
