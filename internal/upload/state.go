package upload

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/claude/hevyplan/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// StateDB records which routines were submitted for each program day, so an
// unchanged program is not sent twice and a changed one updates the same
// routine.
type StateDB struct {
	db *sql.DB
}

// Submission is one ledger row.
type Submission struct {
	Program     string
	Day         int
	Title       string
	RoutineID   string
	Hash        string
	SubmittedAt time.Time
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db
// and applies pending migrations.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	return &StateDB{db: db}, nil
}

func runMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Lookup returns the ledger row for a program day.
func (s *StateDB) Lookup(program string, day int) (*Submission, bool, error) {
	var sub Submission
	err := s.db.QueryRow(
		`SELECT program, day, title, routine_id, hash, submitted_at FROM submissions WHERE program = ? AND day = ?`,
		program, day,
	).Scan(&sub.Program, &sub.Day, &sub.Title, &sub.RoutineID, &sub.Hash, &sub.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up submission: %w", err)
	}
	return &sub, true, nil
}

// Record stores the routine submitted for a program day.
func (s *StateDB) Record(program string, day int, title, routineID, hash string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO submissions (program, day, title, routine_id, hash, submitted_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		program, day, title, routineID, hash,
	)
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	return nil
}

// Forget drops every ledger row pointing at routineID.
func (s *StateDB) Forget(routineID string) error {
	if _, err := s.db.Exec(`DELETE FROM submissions WHERE routine_id = ?`, routineID); err != nil {
		return fmt.Errorf("forgetting routine %s: %w", routineID, err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashRequest computes the SHA-256 of a routine request's JSON encoding,
// ignoring the folder placement.
func HashRequest(req models.RoutineRequest) (string, error) {
	req.FolderID = nil
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
