package fake

import (
	"sync"
)

// Device is a fake hardware device. It answers the commands with the handler
// and records them.
type Device struct {
	sync.Mutex
	Calls   *Call
	Closed  int
	handler func(command []byte) ([]byte, error)
}

// NewDevice returns a fake device that uses the handler to answer.
func NewDevice(handler func(command []byte) ([]byte, error)) *Device {
	return &Device{
		Calls:   NewCall(),
		handler: handler,
	}
}

// NewBadDevice returns a fake device that fails every exchange.
func NewBadDevice() *Device {
	return NewDevice(func([]byte) ([]byte, error) {
		return nil, fakeErr
	})
}

// Exchange records the command and returns the answer of the handler.
func (d *Device) Exchange(command []byte) ([]byte, error) {
	d.Calls.Add(append([]byte{}, command...))

	return d.handler(command)
}

// Close counts the number of times the device is closed.
func (d *Device) Close() error {
	d.Lock()
	d.Closed++
	d.Unlock()

	return nil
}
