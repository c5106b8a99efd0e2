package fitstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sequence is a persisted event sequence. Timestamps are stored as a
// JSON array alongside denormalized summary columns for listing.
type Sequence struct {
	SequenceID string    `json:"sequence_id"`
	Name       string    `json:"name"`
	Times      []float64 `json:"times"`
	CreatedAt  int64     `json:"created_at"`
}

// InsertSequence persists a sequence. A UUID is generated when
// SequenceID is empty.
func (s *FitStore) InsertSequence(seq *Sequence) error {
	if len(seq.Times) == 0 {
		return fmt.Errorf("insert sequence: no timestamps")
	}
	if seq.SequenceID == "" {
		seq.SequenceID = uuid.New().String()
	}
	if seq.CreatedAt == 0 {
		seq.CreatedAt = time.Now().UnixNano()
	}

	timesJSON, err := json.Marshal(seq.Times)
	if err != nil {
		return fmt.Errorf("encode timestamps: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sequences (sequence_id, name, n, t_start, t_end, times_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq.SequenceID, seq.Name, len(seq.Times),
		seq.Times[0], seq.Times[len(seq.Times)-1], string(timesJSON), seq.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sequence: %w", err)
	}
	return nil
}

// GetSequence loads one sequence by ID.
func (s *FitStore) GetSequence(sequenceID string) (*Sequence, error) {
	var seq Sequence
	var timesJSON string
	err := s.db.QueryRow(`
		SELECT sequence_id, name, times_json, created_at
		FROM sequences WHERE sequence_id = ?`, sequenceID,
	).Scan(&seq.SequenceID, &seq.Name, &timesJSON, &seq.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sequence %s not found", sequenceID)
	}
	if err != nil {
		return nil, fmt.Errorf("query sequence: %w", err)
	}

	if err := json.Unmarshal([]byte(timesJSON), &seq.Times); err != nil {
		return nil, fmt.Errorf("decode timestamps: %w", err)
	}
	return &seq, nil
}

// ListSequences returns all sequences, newest first, without their
// timestamp payloads.
func (s *FitStore) ListSequences() ([]*Sequence, error) {
	rows, err := s.db.Query(`
		SELECT sequence_id, name, created_at
		FROM sequences ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var out []*Sequence
	for rows.Next() {
		var seq Sequence
		if err := rows.Scan(&seq.SequenceID, &seq.Name, &seq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		out = append(out, &seq)
	}
	return out, rows.Err()
}
