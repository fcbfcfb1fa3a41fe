// Package catalog persists questionnaire definitions in a local SQLite
// database so teams can keep, list and re-validate the question sets they
// work with. Answers are never stored here.
package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/audite/formgraph/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one catalog row's metadata, without the full definition.
type Entry struct {
	ID               string
	Title            string
	SourceFile       string
	QuestionCount    int
	ConditionalCount int
	Valid            bool
	ImportedAt       time.Time
}

// Store manages the SQLite questionnaire catalog.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the catalog database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	// busy_timeout first so subsequent pragmas wait on locks held by a
	// concurrently initializing process.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}

// execWithRetry retries "database is locked" failures with linear backoff.
func execWithRetry(db *sql.DB, query string, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if _, err = db.Exec(query); err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		time.Sleep(delay * time.Duration(i+1))
	}
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import stores a questionnaire definition and returns its catalog id.
// If the questionnaire has no id yet, a fresh one is generated.
func (s *Store) Import(quest *models.Questionnaire, sourceFile string, valid bool) (string, error) {
	if quest == nil {
		return "", fmt.Errorf("questionnaire is required")
	}

	id := quest.ID
	if id == "" {
		id = uuid.New().String()
	}

	definition, err := yaml.Marshal(quest)
	if err != nil {
		return "", fmt.Errorf("serialize questionnaire: %w", err)
	}

	conditional := 0
	for i := range quest.Questions {
		if quest.Questions[i].IsConditional() {
			conditional++
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO questionnaires
			(id, title, source_file, question_count, conditional_count, valid, definition, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source_file = excluded.source_file,
			question_count = excluded.question_count,
			conditional_count = excluded.conditional_count,
			valid = excluded.valid,
			definition = excluded.definition,
			imported_at = excluded.imported_at`,
		id, quest.Title, sourceFile, len(quest.Questions), conditional,
		boolToInt(valid), string(definition), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("store questionnaire: %w", err)
	}
	return id, nil
}

// List returns catalog entries, newest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, title, COALESCE(source_file, ''), question_count,
		       conditional_count, valid, imported_at
		FROM questionnaires
		ORDER BY imported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var valid int
		if err := rows.Scan(&e.ID, &e.Title, &e.SourceFile, &e.QuestionCount,
			&e.ConditionalCount, &valid, &e.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan questionnaire row: %w", err)
		}
		e.Valid = valid != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads a questionnaire definition by catalog id.
func (s *Store) Get(id string) (*models.Questionnaire, error) {
	var definition string
	err := s.db.QueryRow(
		`SELECT definition FROM questionnaires WHERE id = ?`, id).Scan(&definition)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("questionnaire %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load questionnaire %s: %w", id, err)
	}

	var quest models.Questionnaire
	if err := yaml.Unmarshal([]byte(definition), &quest); err != nil {
		return nil, fmt.Errorf("decode questionnaire %s: %w", id, err)
	}
	quest.ID = id
	return &quest, nil
}

// Delete removes a questionnaire from the catalog.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM questionnaires WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete questionnaire %s: %w", id, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("questionnaire %s not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
