package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"edustack.io/learning-tutor/internal/fingerprint"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS study_guides (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        topic TEXT NOT NULL,
        difficulty TEXT NOT NULL,
        topic_hash TEXT NOT NULL UNIQUE,
        structure TEXT NOT NULL, -- Outline serialized as JSON
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        model_used TEXT,
        ai_generated BOOLEAN DEFAULT TRUE
    );

    CREATE TABLE IF NOT EXISTS section_content (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        topic TEXT NOT NULL,
        section_title TEXT NOT NULL,
        section_index INTEGER NOT NULL,
        difficulty TEXT NOT NULL,
        content_hash TEXT NOT NULL UNIQUE,
        content TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        model_used TEXT,
        generation_time REAL,
        ai_generated BOOLEAN DEFAULT TRUE
    );

    CREATE TABLE IF NOT EXISTS user_sessions (
        session_id TEXT PRIMARY KEY,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        last_accessed DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS user_progress (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        topic TEXT NOT NULL,
        topic_hash TEXT NOT NULL,
        section_index INTEGER NOT NULL,
        completed BOOLEAN DEFAULT FALSE,
        completed_at DATETIME,
        study_time REAL DEFAULT 0,
        last_accessed DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES user_sessions (session_id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Outline methods

// GetOutline returns the cached outline for topic+difficulty, or nil if
// none has been generated yet.
func (s *SQLiteStore) GetOutline(topic, difficulty string) (*OutlineRecord, error) {
	topicHash := fingerprint.Topic(topic, difficulty)

	var structureJSON string
	var modelUsed sql.NullString
	rec := OutlineRecord{TopicHash: topicHash}
	err := s.db.QueryRow(
		"SELECT structure, model_used, ai_generated, created_at FROM study_guides WHERE topic_hash = ?",
		topicHash,
	).Scan(&structureJSON, &modelUsed, &rec.AIGenerated, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not generated yet
		}
		return nil, fmt.Errorf("failed to query study guide: %w", err)
	}

	var outline Outline
	if err := json.Unmarshal([]byte(structureJSON), &outline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached outline %s: %w", topicHash, err)
	}
	rec.Outline = &outline
	if modelUsed.Valid {
		rec.ModelUsed = modelUsed.String
	}
	return &rec, nil
}

// PutOutline persists an outline with first-writer-wins semantics: when two
// concurrent requests race to generate the same topic, the duplicate insert
// is a benign no-op. Returns true if this call inserted the record.
func (s *SQLiteStore) PutOutline(topic, difficulty string, outline *Outline, modelUsed string, aiGenerated bool) (bool, error) {
	topicHash := fingerprint.Topic(topic, difficulty)

	structureJSON, err := json.Marshal(outline)
	if err != nil {
		return false, fmt.Errorf("failed to marshal outline: %w", err)
	}

	stmt, err := s.db.Prepare(
		"INSERT OR IGNORE INTO study_guides (topic, difficulty, topic_hash, structure, model_used, ai_generated) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return false, fmt.Errorf("failed to prepare study guide insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(topic, difficulty, topicHash, string(structureJSON), modelUsed, aiGenerated)
	if err != nil {
		return false, fmt.Errorf("failed to execute study guide insert: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// Section methods

// GetSection returns the cached body for topic+title+difficulty, or nil.
func (s *SQLiteStore) GetSection(topic, sectionTitle, difficulty string) (*SectionContent, error) {
	contentHash := fingerprint.Section(topic, sectionTitle, difficulty)

	var sc SectionContent
	var modelUsed sql.NullString
	var generationTime sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT topic, section_title, section_index, difficulty, content, model_used, generation_time, ai_generated FROM section_content WHERE content_hash = ?",
		contentHash,
	).Scan(&sc.Topic, &sc.SectionTitle, &sc.SectionIndex, &sc.Difficulty, &sc.Content, &modelUsed, &generationTime, &sc.AIGenerated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not generated yet
		}
		return nil, fmt.Errorf("failed to query section content: %w", err)
	}
	if modelUsed.Valid {
		sc.ModelUsed = modelUsed.String
	}
	if generationTime.Valid {
		sc.GenerationTime = generationTime.Float64
	}
	return &sc, nil
}

// PutSection upserts a section body. Replace-on-conflict is intentional:
// forced regeneration overwrites whatever was cached.
func (s *SQLiteStore) PutSection(sc *SectionContent) error {
	contentHash := fingerprint.Section(sc.Topic, sc.SectionTitle, sc.Difficulty)

	stmt, err := s.db.Prepare(
		"INSERT OR REPLACE INTO section_content (topic, section_title, section_index, difficulty, content_hash, content, model_used, generation_time, ai_generated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare section content insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(sc.Topic, sc.SectionTitle, sc.SectionIndex, sc.Difficulty, contentHash, sc.Content, sc.ModelUsed, sc.GenerationTime, sc.AIGenerated)
	if err != nil {
		return fmt.Errorf("failed to execute section content insert: %w", err)
	}
	return nil
}

// DeleteSection removes a cached section body. Deleting a key that was
// never written is not an error.
func (s *SQLiteStore) DeleteSection(topic, sectionTitle, difficulty string) error {
	contentHash := fingerprint.Section(topic, sectionTitle, difficulty)
	_, err := s.db.Exec("DELETE FROM section_content WHERE content_hash = ?", contentHash)
	if err != nil {
		return fmt.Errorf("failed to delete section content: %w", err)
	}
	return nil
}

// Session methods

func (s *SQLiteStore) CreateSession(sessionID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO user_sessions (session_id) VALUES (?)", sessionID)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TouchSession(sessionID string) error {
	_, err := s.db.Exec("UPDATE user_sessions SET last_accessed = ? WHERE session_id = ?", time.Now(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// Progress methods

// UpsertProgress records completion state for one section of one session.
// Study time accumulates across updates.
func (s *SQLiteStore) UpsertProgress(sessionID, topic, topicHash string, sectionIndex int, completed bool, studyTime float64) error {
	var id int64
	err := s.db.QueryRow(
		"SELECT id FROM user_progress WHERE session_id = ? AND topic_hash = ? AND section_index = ?",
		sessionID, topicHash, sectionIndex,
	).Scan(&id)

	var completedAt interface{}
	if completed {
		completedAt = time.Now()
	}

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			"INSERT INTO user_progress (session_id, topic, topic_hash, section_index, completed, completed_at, study_time) VALUES (?, ?, ?, ?, ?, ?, ?)",
			sessionID, topic, topicHash, sectionIndex, completed, completedAt, studyTime,
		)
		if err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query progress: %w", err)
	default:
		_, err = s.db.Exec(
			"UPDATE user_progress SET completed = ?, completed_at = ?, study_time = study_time + ?, last_accessed = ? WHERE id = ?",
			completed, completedAt, studyTime, time.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
	}
	return nil
}

// GetProgress returns per-section progress for one session and topic hash.
func (s *SQLiteStore) GetProgress(sessionID, topicHash string) ([]SectionProgress, error) {
	rows, err := s.db.Query(
		"SELECT section_index, completed, study_time, completed_at FROM user_progress WHERE session_id = ? AND topic_hash = ?",
		sessionID, topicHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var progress []SectionProgress
	for rows.Next() {
		var p SectionProgress
		var studyTime sql.NullFloat64
		var completedAt sql.NullTime
		if err := rows.Scan(&p.SectionIndex, &p.Completed, &studyTime, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		if studyTime.Valid {
			p.StudyTime = studyTime.Float64
		}
		if completedAt.Valid {
			p.CompletedAt = &completedAt.Time
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
