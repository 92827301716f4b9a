package store

import "time"

// DeviceRecord captures where one device was detected.
type DeviceRecord struct {
	Name         string    `json:"name"`
	Port         string    `json:"port"`
	HWID         string    `json:"hwid"`
	ExpectedPort string    `json:"expected_port,omitempty"`
	Matched      bool      `json:"matched"`
	Screenshot   string    `json:"screenshot,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}

// SessionRecord captures the result of one setup run.
type SessionRecord struct {
	ID       string         `json:"id"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	LogFile  string         `json:"log_file"`
	Devices  []DeviceRecord `json:"devices"`
}

// Duration returns how long the session took.
func (r SessionRecord) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
