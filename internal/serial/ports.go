package serial

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Port holds details about an attached serial port. Name and HWID are what
// the setup flow keys on; the rest is carried into logs and history.
type Port struct {
	Name         string `json:"name"`
	HWID         string `json:"hwid"`
	IsUSB        bool   `json:"is_usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}

// Enumerator lists the serial ports currently visible to the OS.
type Enumerator interface {
	ListPorts() ([]Port, error)
}

// SystemEnumerator queries the OS on every call. Nothing is cached.
type SystemEnumerator struct{}

// ListPorts implements Enumerator.
func (SystemEnumerator) ListPorts() ([]Port, error) {
	return ListPorts()
}

// FuncEnumerator adapts a function to the Enumerator interface.
type FuncEnumerator func() ([]Port, error)

// ListPorts implements Enumerator.
func (f FuncEnumerator) ListPorts() ([]Port, error) {
	return f()
}

// ListPorts returns available serial ports in the order the OS reports them.
func ListPorts() ([]Port, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, p := range ports {
		result = append(result, fromDetails(p))
	}
	return result, nil
}

func fromDetails(p *enumerator.PortDetails) Port {
	port := Port{
		Name:         p.Name,
		IsUSB:        p.IsUSB,
		VID:          strings.ToUpper(p.VID),
		PID:          strings.ToUpper(p.PID),
		SerialNumber: p.SerialNumber,
		Product:      p.Product,
	}
	port.HWID = HWID(port)
	return port
}

// HWID renders a hardware identifier in the familiar
// "USB VID:PID=0403:6001 SER=A1B2C3" form. Non-USB ports report "n/a".
func HWID(p Port) string {
	if !p.IsUSB {
		return "n/a"
	}
	id := fmt.Sprintf("USB VID:PID=%s:%s", p.VID, p.PID)
	if p.SerialNumber != "" {
		id += " SER=" + p.SerialNumber
	}
	return id
}

// PortMap converts a listing into a port name -> hardware id mapping.
func PortMap(ports []Port) map[string]string {
	m := make(map[string]string, len(ports))
	for _, p := range ports {
		m[p.Name] = p.HWID
	}
	return m
}
