package setup

import "time"

// Device is one expected device in a setup session. ExpectedPort is a hint
// only: detection accepts whatever new port appears.
type Device struct {
	Name         string `json:"name" yaml:"name"`
	ExpectedPort string `json:"expected_port,omitempty" yaml:"expected_port,omitempty"`
}

// DefaultDevices is the device list used when no plan or config names one.
func DefaultDevices() []Device {
	return []Device{
		{Name: "SICK Hand Scanner", ExpectedPort: "COM7"},
		{Name: "Boarding Pass Barcode Scanner", ExpectedPort: "COM8"},
	}
}

// Status is the terminal state of a run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

// Detection records where one device showed up.
type Detection struct {
	Device       string    `json:"device"`
	Port         string    `json:"port"`
	HWID         string    `json:"hwid"`
	ExpectedPort string    `json:"expected_port,omitempty"`
	Matched      bool      `json:"matched"`
	Screenshot   string    `json:"screenshot"`
	DetectedAt   time.Time `json:"detected_at"`
}

// Result is the outcome of a run. Detections made before an abort are kept.
type Result struct {
	Detected   map[string]string
	Detections []Detection
	Status     Status
	Err        error
	Started    time.Time
	Finished   time.Time
}

// OK reports whether every device was detected.
func (r Result) OK() bool {
	return r.Status == StatusCompleted
}
