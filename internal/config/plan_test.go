package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buckleypaul/comsetup/internal/setup"
)

func writePlan(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPlanYAML(t *testing.T) {
	path := writePlan(t, "gate12.yaml", `
devices:
  - name: SICK Hand Scanner
    expected_port: COM7
  - name: Boarding Pass Barcode Scanner
`)

	devices, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if devices[0].ExpectedPort != "COM7" {
		t.Errorf("expected COM7 hint, got %q", devices[0].ExpectedPort)
	}
	if devices[1].ExpectedPort != "" {
		t.Errorf("expected empty hint, got %q", devices[1].ExpectedPort)
	}
}

func TestLoadPlanJSON(t *testing.T) {
	path := writePlan(t, "plan.json", `{"devices":[{"name":"Scale","expected_port":"COM4"}]}`)

	devices, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "Scale" {
		t.Errorf("unexpected devices %v", devices)
	}
}

func TestLoadPlanEmpty(t *testing.T) {
	path := writePlan(t, "empty.yml", "devices: []\n")
	if _, err := LoadPlan(path); !errors.Is(err, ErrNoDevices) {
		t.Fatalf("expected ErrNoDevices, got %v", err)
	}
}

func TestLoadPlanUnsupportedFormat(t *testing.T) {
	path := writePlan(t, "plan.toml", "")
	if _, err := LoadPlan(path); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestValidateDuplicates(t *testing.T) {
	err := Validate([]setup.Device{{Name: "Scanner"}, {Name: "Scanner"}})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := Validate([]setup.Device{{Name: " "}}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestResolveDevicesPrecedence(t *testing.T) {
	cfg := Defaults()

	devices, err := ResolveDevices(cfg, "")
	if err != nil || len(devices) != 2 || devices[0].Name != "SICK Hand Scanner" {
		t.Fatalf("expected built-in defaults, got %v (%v)", devices, err)
	}

	cfg.Devices = []setup.Device{{Name: "Scale"}}
	devices, _ = ResolveDevices(cfg, "")
	if len(devices) != 1 || devices[0].Name != "Scale" {
		t.Fatalf("expected config devices, got %v", devices)
	}

	path := writePlan(t, "p.yaml", "devices:\n  - name: Printer\n")
	devices, _ = ResolveDevices(cfg, path)
	if len(devices) != 1 || devices[0].Name != "Printer" {
		t.Fatalf("expected plan devices, got %v", devices)
	}
}
