package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// timeLayout is fixed width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS stock_movements (
	event_id TEXT PRIMARY KEY,
	event_type TEXT NOT NULL,
	lot_id TEXT NOT NULL,
	product_id TEXT,
	reservation_id TEXT,
	case_material_id TEXT,
	quantity TEXT NOT NULL,
	physical_delta TEXT NOT NULL,
	available_delta TEXT NOT NULL,
	reserved_delta TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_lot ON stock_movements(lot_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_stock_movements_type ON stock_movements(event_type);
`

// SingleWriterDB serializes all writes to the SQLite journal. Reads go
// straight to the pool.
type SingleWriterDB struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSingleWriterDB opens the journal at cfg.JournalSQLitePath and creates the schema
func NewSingleWriterDB(cfg *config.Config, logger *zap.Logger) (*SingleWriterDB, error) {
	db, err := sql.Open("sqlite3", cfg.JournalSQLitePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	swdb, err := Open(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return swdb, nil
}

// Open wraps an existing connection and ensures the schema exists
func Open(db *sql.DB, logger *zap.Logger) (*SingleWriterDB, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SingleWriterDB{db: db, logger: logger}, nil
}

func (swdb *SingleWriterDB) Ping(ctx context.Context) error {
	return swdb.db.PingContext(ctx)
}

func (swdb *SingleWriterDB) Close() error {
	return swdb.db.Close()
}

// Record appends a movement. A movement whose event id is already journaled
// is ignored and reported as not inserted.
func (swdb *SingleWriterDB) Record(ctx context.Context, m *Movement) (bool, error) {
	swdb.mu.Lock()
	defer swdb.mu.Unlock()

	query := `
		INSERT OR IGNORE INTO stock_movements (
			event_id, event_type, lot_id, product_id, reservation_id, case_material_id,
			quantity, physical_delta, available_delta, reserved_delta, occurred_at, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := swdb.db.ExecContext(ctx, query,
		m.EventID, m.EventType, m.LotID,
		nullString(m.ProductID), nullString(m.ReservationID), nullString(m.CaseMaterialID),
		m.Quantity.String(), m.PhysicalDelta.String(), m.AvailableDelta.String(), m.ReservedDelta.String(),
		m.OccurredAt.UTC().Format(timeLayout), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record movement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

// Movements returns the newest movements first, optionally for a single lot
func (swdb *SingleWriterDB) Movements(ctx context.Context, lotID string, limit int) ([]Movement, error) {
	query := `
		SELECT event_id, event_type, lot_id, product_id, reservation_id, case_material_id,
		       quantity, physical_delta, available_delta, reserved_delta, occurred_at
		FROM stock_movements
	`
	args := []interface{}{}
	if lotID != "" {
		query += " WHERE lot_id = ?"
		args = append(args, lotID)
	}
	query += " ORDER BY occurred_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := swdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	movements := []Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movements: %w", err)
	}
	return movements, nil
}

// Stats summarizes the journal
func (swdb *SingleWriterDB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByType: map[string]int{}}

	var last sql.NullString
	err := swdb.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT lot_id), MAX(occurred_at) FROM stock_movements",
	).Scan(&stats.Total, &stats.Lots, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to count movements: %w", err)
	}
	if last.Valid {
		if t, err := time.Parse(timeLayout, last.String); err == nil {
			stats.LastOccurredAt = &t
		}
	}

	rows, err := swdb.db.QueryContext(ctx, "SELECT event_type, COUNT(*) FROM stock_movements GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count movements by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			eventType string
			count     int
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan movement count: %w", err)
		}
		stats.ByType[eventType] = count
	}
	return stats, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMovement(row scanner) (*Movement, error) {
	var (
		m                                              Movement
		productID, reservationID, caseMaterialID       sql.NullString
		quantity, physical, available, reserved, occur string
	)
	if err := row.Scan(
		&m.EventID, &m.EventType, &m.LotID, &productID, &reservationID, &caseMaterialID,
		&quantity, &physical, &available, &reserved, &occur,
	); err != nil {
		return nil, fmt.Errorf("failed to scan movement: %w", err)
	}

	m.ProductID = productID.String
	m.ReservationID = reservationID.String
	m.CaseMaterialID = caseMaterialID.String

	var err error
	if m.Quantity, err = parseDecimal(quantity); err != nil {
		return nil, err
	}
	if m.PhysicalDelta, err = parseDecimal(physical); err != nil {
		return nil, err
	}
	if m.AvailableDelta, err = parseDecimal(available); err != nil {
		return nil, err
	}
	if m.ReservedDelta, err = parseDecimal(reserved); err != nil {
		return nil, err
	}
	if m.OccurredAt, err = time.Parse(timeLayout, occur); err != nil {
		return nil, fmt.Errorf("invalid occurred_at %q: %w", occur, err)
	}
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ErrUnknownEvent marks events the journal does not project
var ErrUnknownEvent = errors.New("unknown event type")
