package services

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	"mira/internal/database"
	"mira/internal/models"
)

const factsCacheKey = "facts:recent"

// FactService handles long-term memory persistence (facts and reminders)
type FactService struct {
	db        *database.DB
	factCache *cache.Cache // read-through cache for the working set of facts
}

// NewFactService creates a new fact service
func NewFactService(db *database.DB) *FactService {
	return &FactService{
		db:        db,
		factCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// CreateFact persists a new fact.
// Reminders whose time already passed are rejected so stale reminders never
// fire; a reminder with no time at all is kept as a plain memory and never
// comes due.
func (s *FactService) CreateFact(req *models.CreateFactRequest, now time.Time) (*models.Fact, error) {
	key := strings.TrimSpace(req.Key)
	value := strings.TrimSpace(req.Value)
	if key == "" || value == "" {
		return nil, fmt.Errorf("fact key and value are required")
	}

	if key == models.FactKeyReminder && req.RemindAt != nil && !req.RemindAt.After(now) {
		return nil, fmt.Errorf("reminder time %s is in the past", req.RemindAt.Format(time.RFC3339))
	}

	createdAt := now.UTC()
	var remindAt *time.Time
	if req.RemindAt != nil {
		utc := req.RemindAt.UTC()
		remindAt = &utc
	}

	resolved := req.Resolved != nil && *req.Resolved
	reminded := req.Reminded != nil && *req.Reminded

	result, err := s.db.Exec(
		"INSERT INTO facts (key, value, created_at, remind_at, resolved, reminded) VALUES (?, ?, ?, ?, ?, ?)",
		key, value, createdAt, remindAt, resolved, reminded,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert fact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get fact id: %w", err)
	}

	s.factCache.Delete(factsCacheKey)
	log.Printf("🧠 [MEMORY] Stored fact #%d (%s): %s", id, key, value)

	return &models.Fact{
		ID:        id,
		Key:       key,
		Value:     value,
		CreatedAt: createdAt,
		RemindAt:  remindAt,
		Resolved:  resolved,
		Reminded:  reminded,
	}, nil
}

// UpdateFact applies a partial update to an existing fact.
func (s *FactService) UpdateFact(id int64, patch *models.FactPatch) (*models.Fact, error) {
	var sets []string
	var args []any

	if patch.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, strings.TrimSpace(*patch.Value))
	}
	if patch.RemindAt != nil {
		sets = append(sets, "remind_at = ?")
		args = append(args, patch.RemindAt.UTC())
	}
	if patch.Resolved != nil {
		sets = append(sets, "resolved = ?")
		args = append(args, *patch.Resolved)
	}
	if patch.Reminded != nil {
		sets = append(sets, "reminded = ?")
		args = append(args, *patch.Reminded)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, id)
	result, err := s.db.Exec(
		"UPDATE facts SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update fact: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("fact %d not found", id)
	}

	s.factCache.Delete(factsCacheKey)
	return s.GetFact(id)
}

// GetFact returns a single fact by ID.
func (s *FactService) GetFact(id int64) (*models.Fact, error) {
	row := s.db.QueryRow(
		"SELECT id, key, value, created_at, remind_at, resolved, reminded FROM facts WHERE id = ?",
		id,
	)

	fact, err := scanFact(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fact %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fact: %w", err)
	}
	return fact, nil
}

// ListFacts returns the most recently created facts, newest first.
// Results are cached briefly since the persona prompt reads them on every turn.
func (s *FactService) ListFacts(limit int) ([]models.Fact, error) {
	if limit <= 0 {
		limit = 20
	}

	if cached, found := s.factCache.Get(factsCacheKey); found {
		facts := cached.([]models.Fact)
		if len(facts) >= limit {
			return facts[:limit], nil
		}
	}

	rows, err := s.db.Query(`
		SELECT id, key, value, created_at, remind_at, resolved, reminded
		FROM facts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	facts, err := collectFacts(rows)
	if err != nil {
		return nil, err
	}

	s.factCache.Set(factsCacheKey, facts, cache.DefaultExpiration)
	return facts, nil
}

// ListDueReminders returns unresolved reminders whose time has arrived and
// that have not been announced yet, earliest first.
func (s *FactService) ListDueReminders(now time.Time) ([]models.Fact, error) {
	rows, err := s.db.Query(`
		SELECT id, key, value, created_at, remind_at, resolved, reminded
		FROM facts
		WHERE key = ? AND remind_at IS NOT NULL AND remind_at <= ?
		  AND resolved = 0 AND reminded = 0
		ORDER BY remind_at ASC
	`, models.FactKeyReminder, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return collectFacts(rows)
}

// FirstOpenProblem returns the oldest unresolved problem that has not been
// followed up on yet, or nil when there is none.
func (s *FactService) FirstOpenProblem() (*models.Fact, error) {
	row := s.db.QueryRow(`
		SELECT id, key, value, created_at, remind_at, resolved, reminded
		FROM facts
		WHERE key = ? AND resolved = 0 AND reminded = 0
		ORDER BY created_at ASC
		LIMIT 1
	`, models.FactKeyProblem)

	fact, err := scanFact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query open problem: %w", err)
	}
	return fact, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFact(row rowScanner) (*models.Fact, error) {
	var f models.Fact
	var remindAt sql.NullTime
	if err := row.Scan(&f.ID, &f.Key, &f.Value, &f.CreatedAt, &remindAt, &f.Resolved, &f.Reminded); err != nil {
		return nil, err
	}
	if remindAt.Valid {
		t := remindAt.Time
		f.RemindAt = &t
	}
	return &f, nil
}

func collectFacts(rows *sql.Rows) ([]models.Fact, error) {
	var facts []models.Fact
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, *fact)
	}
	return facts, rows.Err()
}
