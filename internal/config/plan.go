package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/buckleypaul/comsetup/internal/setup"
)

// ErrNoDevices is returned for a plan that lists no devices.
var ErrNoDevices = errors.New("plan lists no devices")

// Plan is a device plan file:
//
//	devices:
//	  - name: SICK Hand Scanner
//	    expected_port: COM7
type Plan struct {
	Devices []setup.Device `json:"devices" yaml:"devices"`
}

// LoadPlan reads a YAML (.yaml, .yml) or JSON (.json) device plan.
func LoadPlan(path string) ([]setup.Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &plan)
	case ".json":
		err = json.Unmarshal(data, &plan)
	default:
		return nil, fmt.Errorf("plan %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}

	if err := Validate(plan.Devices); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return plan.Devices, nil
}

// Validate checks that devices is non-empty and names are unique.
func Validate(devices []setup.Device) error {
	if len(devices) == 0 {
		return ErrNoDevices
	}
	seen := make(map[string]bool, len(devices))
	for i, d := range devices {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("device %d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("duplicate device name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// ResolveDevices picks the device list: an explicit plan file first, then
// devices from config, then the built-in default list.
func ResolveDevices(cfg Config, planPath string) ([]setup.Device, error) {
	if planPath != "" {
		return LoadPlan(planPath)
	}
	if len(cfg.Devices) > 0 {
		if err := Validate(cfg.Devices); err != nil {
			return nil, fmt.Errorf("config devices: %w", err)
		}
		return cfg.Devices, nil
	}
	return setup.DefaultDevices(), nil
}
