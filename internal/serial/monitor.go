package serial

import (
	"context"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the common factory setting of barcode scanners.
const DefaultBaudRate = 9600

// OpenFunc opens a serial port. serial.Open satisfies it once adapted.
type OpenFunc func(name string, baudRate int) (io.ReadWriteCloser, error)

// Monitor streams data from a serial port, used to check a freshly
// onboarded device by watching what it sends.
type Monitor struct {
	open     OpenFunc
	port     io.ReadWriteCloser
	portName string
	baudRate int
	mu       sync.Mutex
	running  bool
	dataCh   chan []byte
	done     chan struct{}
	exited   chan struct{}
	readErr  error
}

// NewMonitor creates a monitor backed by the system serial driver.
func NewMonitor() *Monitor {
	return NewMonitorWith(openSystem)
}

// NewMonitorWith creates a monitor that opens ports with open.
func NewMonitorWith(open OpenFunc) *Monitor {
	return &Monitor{
		open:   open,
		dataCh: make(chan []byte, 64),
	}
}

func openSystem(name string, baudRate int) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(name, mode)
}

// Connect opens a serial port with the given settings.
func (m *Monitor) Connect(portName string, baudRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.disconnectLocked()
	}

	port, err := m.open(portName, baudRate)
	if err != nil {
		return err
	}

	m.port = port
	m.portName = portName
	m.baudRate = baudRate
	m.running = true
	m.readErr = nil
	m.done = make(chan struct{})
	m.exited = make(chan struct{})

	go m.readLoop(port, m.done, m.exited)
	return nil
}

// Disconnect closes the serial port.
func (m *Monitor) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectLocked()
}

func (m *Monitor) disconnectLocked() {
	if !m.running {
		return
	}
	m.running = false
	if m.port != nil {
		m.port.Close()
	}
	close(m.done)
}

// Write sends data to the serial port.
func (m *Monitor) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil || !m.running {
		return io.ErrClosedPipe
	}
	_, err := m.port.Write(data)
	return err
}

// PortName returns the name of the connected port.
func (m *Monitor) PortName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portName
}

// Stream copies received data to w until ctx is cancelled or the port
// stops delivering data. A cancelled context is not an error.
func (m *Monitor) Stream(ctx context.Context, w io.Writer) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	exited := m.exited
	m.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			m.Disconnect()
			return nil
		case data := <-m.dataCh:
			if _, err := w.Write(data); err != nil {
				m.Disconnect()
				return err
			}
		case <-exited:
			m.drain(w)
			m.Disconnect()
			m.mu.Lock()
			err := m.readErr
			m.mu.Unlock()
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (m *Monitor) drain(w io.Writer) {
	for {
		select {
		case data := <-m.dataCh:
			w.Write(data)
		default:
			return
		}
	}
}

func (m *Monitor) readLoop(port io.Reader, done, exited chan struct{}) {
	defer close(exited)
	buf := make([]byte, 1024)
	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := port.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			select {
			case m.dataCh <- data:
			default:
				// Drop data if channel is full
			}
		}
		if err != nil {
			m.mu.Lock()
			m.readErr = err
			m.mu.Unlock()
			return
		}
	}
}
