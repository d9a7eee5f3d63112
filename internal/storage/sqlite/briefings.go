package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/skybrief/skybrief/pkg/logger"
	_ "modernc.org/sqlite"
)

// BriefingRecord represents one generated briefing in the database
type BriefingRecord struct {
	ID          int64     `json:"id"`
	Departure   string    `json:"departure"`
	Destination string    `json:"destination"`
	Category    string    `json:"category"`
	Summary     string    `json:"summary,omitempty"`
	Document    string    `json:"document"`
	CreatedAt   time.Time `json:"created_at"`
}

// HazardRecord represents one correlated route hazard belonging to a briefing
type HazardRecord struct {
	ID         int64   `json:"id"`
	BriefingID int64   `json:"briefing_id"`
	DistanceNM float64 `json:"distance_to_pirep_nm"`
	PirepRaw   string  `json:"pirep_raw"`
	Summary    string  `json:"summary"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// BriefingStorage is a SQLite-based storage for briefings and their hazards
type BriefingStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewBriefingStorage creates a new SQLite-based briefing storage
func NewBriefingStorage(dbPath string, log *logger.Logger) (*BriefingStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &BriefingStorage{
		db:     db,
		logger: storageLogger,
	}

	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the database connection
func (s *BriefingStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetDB returns the database connection
func (s *BriefingStorage) GetDB() *sql.DB {
	return s.db
}

// initDB initializes the database tables
func (s *BriefingStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS briefings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			departure TEXT NOT NULL,
			destination TEXT NOT NULL,
			category TEXT NOT NULL,
			summary TEXT,
			document TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create briefings table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS briefing_hazards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			briefing_id INTEGER NOT NULL,
			distance_nm REAL NOT NULL,
			pirep_raw TEXT NOT NULL,
			summary TEXT,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			FOREIGN KEY (briefing_id) REFERENCES briefings(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create briefing_hazards table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_briefings_route ON briefings(departure, destination)`)
	if err != nil {
		return fmt.Errorf("failed to create route index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_briefings_created_at ON briefings(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_hazards_briefing_id ON briefing_hazards(briefing_id)`)
	if err != nil {
		return fmt.Errorf("failed to create briefing_id index: %w", err)
	}

	return nil
}

// StoreBriefing stores a briefing and its hazards in one transaction
func (s *BriefingStorage) StoreBriefing(record *BriefingRecord, hazards []HazardRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO briefings
		(departure, destination, category, summary, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.Departure,
		record.Destination,
		record.Category,
		record.Summary,
		record.Document,
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert briefing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	for _, hz := range hazards {
		_, err := tx.Exec(
			`INSERT INTO briefing_hazards
			(briefing_id, distance_nm, pirep_raw, summary, lat, lon)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id,
			hz.DistanceNM,
			hz.PirepRaw,
			hz.Summary,
			hz.Lat,
			hz.Lon,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert briefing hazard: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit briefing: %w", err)
	}

	return id, nil
}

// GetLatestBriefing returns the most recent briefing for a route, or nil when
// none has been generated yet
func (s *BriefingStorage) GetLatestBriefing(departure, destination string) (*BriefingRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, departure, destination, category, summary, document, created_at
		FROM briefings
		WHERE departure = ? AND destination = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		departure, destination,
	)

	record, err := scanBriefing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest briefing: %w", err)
	}
	return record, nil
}

// GetBriefings returns briefings ordered newest first with pagination
func (s *BriefingStorage) GetBriefings(limit, offset int) ([]*BriefingRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, departure, destination, category, summary, document, created_at
		FROM briefings
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query briefings: %w", err)
	}
	defer rows.Close()

	var records []*BriefingRecord
	for rows.Next() {
		record, err := scanBriefing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan briefing: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetHazards returns the hazards recorded for one briefing
func (s *BriefingStorage) GetHazards(briefingID int64) ([]HazardRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, briefing_id, distance_nm, pirep_raw, summary, lat, lon
		FROM briefing_hazards
		WHERE briefing_id = ?
		ORDER BY distance_nm ASC`,
		briefingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query briefing hazards: %w", err)
	}
	defer rows.Close()

	var hazards []HazardRecord
	for rows.Next() {
		var hz HazardRecord
		var summary sql.NullString
		if err := rows.Scan(&hz.ID, &hz.BriefingID, &hz.DistanceNM, &hz.PirepRaw, &summary, &hz.Lat, &hz.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan briefing hazard: %w", err)
		}
		if summary.Valid {
			hz.Summary = summary.String
		}
		hazards = append(hazards, hz)
	}

	return hazards, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanBriefing(row scanner) (*BriefingRecord, error) {
	var record BriefingRecord
	var summary sql.NullString
	var createdAt string

	if err := row.Scan(
		&record.ID,
		&record.Departure,
		&record.Destination,
		&record.Category,
		&summary,
		&record.Document,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if summary.Valid {
		record.Summary = summary.String
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	record.CreatedAt = parsed

	return &record, nil
}
