package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buckleypaul/comsetup/internal/setup"
)

const sessionsFile = "sessions.json"

// Store persists setup session records next to the session log.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at the given directory (typically <log dir>/.comsetup).
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) historyDir() string {
	return filepath.Join(s.root, "history")
}

// AddSession appends a session record, assigning an ID if it has none.
func (s *Store) AddSession(r SessionRecord) (SessionRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Devices == nil {
		r.Devices = []DeviceRecord{}
	}
	return r, s.appendRecord(sessionsFile, r)
}

// Sessions returns all session records, oldest first.
func (s *Store) Sessions() ([]SessionRecord, error) {
	var records []SessionRecord
	err := s.loadRecords(sessionsFile, &records)
	return records, err
}

// RecordFromResult converts a setup result into a session record.
func RecordFromResult(res setup.Result, logFile string) SessionRecord {
	rec := SessionRecord{
		Started:  res.Started,
		Finished: res.Finished,
		Status:   string(res.Status),
		LogFile:  logFile,
		Devices:  make([]DeviceRecord, 0, len(res.Detections)),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	for _, d := range res.Detections {
		rec.Devices = append(rec.Devices, DeviceRecord{
			Name:         d.Device,
			Port:         d.Port,
			HWID:         d.HWID,
			ExpectedPort: d.ExpectedPort,
			Matched:      d.Matched,
			Screenshot:   d.Screenshot,
			DetectedAt:   d.DetectedAt,
		})
	}
	return rec
}

func (s *Store) appendRecord(filename string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.historyDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, filename)

	// Read existing records. An unreadable history is moved aside, not overwritten.
	var records []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &records); err != nil {
			records = nil
			if err := os.Rename(path, corruptName(path, time.Now())); err != nil {
				return err
			}
		}
	}

	// Marshal and append new record
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	records = append(records, raw)

	// Write back
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func corruptName(path string, t time.Time) string {
	return path + ".corrupt-" + t.Format("20060102_150405")
}

func (s *Store) loadRecords(filename string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.historyDir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
