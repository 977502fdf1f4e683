package signer

import (
	"context"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"

	ledger "github.com/zondax/ledger-go"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"golang.org/x/xerrors"
)

// DefaultHDPath is the derivation path of the first key of the NEAR app.
const DefaultHDPath = "44'/397'/0'/0'/1'"

const (
	claNear              = 0x80
	insSignTransaction   = 0x02
	insGetPublicKey      = 0x04
	insSignDelegate      = 0x08
	p1More               = 0x00
	p1Last               = 0x80
	p1Silent             = 0x01
	networkID            = 'W'
	chunkSize            = 250
	hardened             = 0x80000000
	statusBufferOverflow = 0x6990
)

var (
	// ErrBufferOverflow is returned when the payload is too large for the
	// device.
	ErrBufferOverflow = xerrors.New("payload is too large for the device")
	// ErrDevice is returned when the device cannot be reached.
	ErrDevice = xerrors.New("device is not available")
	// ErrIO is returned when an exchange with the device fails.
	ErrIO = xerrors.New("exchange with the device failed")
	// ErrTask is returned when the task running on the device panics.
	ErrTask = xerrors.New("device task failed")

	errClosed = xerrors.New("backend is closed")
)

// Device is a hardware device that exchanges commands.
type Device interface {
	// Exchange sends the command and returns the answer without the status
	// word. The error of a status word is formatted by the ledger library.
	Exchange(command []byte) ([]byte, error)
	Close() error
}

// OpenLedger returns the first ledger device connected to the host.
func OpenLedger() (Device, error) {
	admin := ledger.NewLedgerAdmin()

	dev, err := admin.Connect(0)
	if err != nil {
		return nil, err
	}

	return dev, nil
}

// LedgerOption is the type of options to create a ledger backend.
type LedgerOption func(*LedgerBackend)

// WithOpener is an option to set the function that opens the device.
func WithOpener(open func() (Device, error)) LedgerOption {
	return func(b *LedgerBackend) {
		b.open = open
	}
}

// LedgerBackend signs with the NEAR app of a hardware device. The exchanges
// with the device run on a dedicated goroutine.
//
// - implements signer.Backend
type LedgerBackend struct {
	path  []uint32
	open  func() (Device, error)
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
	stop  sync.Once

	sync.Mutex
	pk crypto.PublicKey
}

// NewLedger returns a ledger backend using the key of the derivation path.
func NewLedger(hdPath string, opts ...LedgerOption) (*LedgerBackend, error) {
	path, err := ParseHDPath(hdPath)
	if err != nil {
		return nil, xerrors.Errorf("invalid path: %v", err)
	}

	b := &LedgerBackend{
		path:  path,
		open:  OpenLedger,
		tasks: make(chan func()),
		quit:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// ParseHDPath parses a derivation path like "44'/397'/0'/0'/1'".
func ParseHDPath(text string) ([]uint32, error) {
	text = strings.TrimPrefix(text, "m/")
	if text == "" {
		return nil, xerrors.New("empty path")
	}

	parts := strings.Split(text, "/")
	path := make([]uint32, len(parts))

	for i, part := range parts {
		var flag uint32
		if strings.HasSuffix(part, "'") {
			flag = hardened
			part = strings.TrimSuffix(part, "'")
		}

		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, xerrors.Errorf("invalid index '%s': %v", parts[i], err)
		}

		path[i] = uint32(index) | flag
	}

	return path, nil
}

func (*LedgerBackend) backend() {}

// Close stops the worker of the device. The backend cannot sign afterwards.
func (b *LedgerBackend) Close() error {
	b.stop.Do(func() {
		close(b.quit)
	})

	return nil
}

// PublicKey implements signer.Backend. The key is read from the device once.
func (b *LedgerBackend) PublicKey(ctx context.Context) (crypto.PublicKey, error) {
	b.Lock()
	pk := b.pk
	b.Unlock()

	if pk != nil {
		return pk, nil
	}

	data, err := b.exec(ctx, func(dev Device) ([]byte, error) {
		return exchange(dev, insGetPublicKey, p1Silent, b.pathBytes())
	})
	if err != nil {
		return nil, newError(ErrPublicKeyNotAvailable, err)
	}

	key, err := ed25519.NewPublicKey(data)
	if err != nil {
		return nil, newError(ErrPublicKeyNotAvailable, err)
	}

	b.Lock()
	b.pk = key
	b.Unlock()

	return key, nil
}

// SignTransaction implements signer.Backend. The device hashes and signs the
// encoded transaction.
func (b *LedgerBackend) SignTransaction(ctx context.Context, pk crypto.PublicKey,
	tx primitives.Transaction) (crypto.Signature, error) {

	err := b.check(ctx, pk)
	if err != nil {
		return nil, err
	}

	data, err := tx.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode transaction: %v", err)
	}

	return b.sign(ctx, insSignTransaction, data)
}

// SignDelegate implements signer.Backend. The device adds the prefix of the
// delegate actions before it hashes and signs the encoded action.
func (b *LedgerBackend) SignDelegate(ctx context.Context, pk crypto.PublicKey,
	da primitives.DelegateAction) (crypto.Signature, error) {

	err := b.check(ctx, pk)
	if err != nil {
		return nil, err
	}

	data, err := da.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode delegate action: %v", err)
	}

	return b.sign(ctx, insSignDelegate, data)
}

func (b *LedgerBackend) check(ctx context.Context, pk crypto.PublicKey) error {
	own, err := b.PublicKey(ctx)
	if err != nil {
		return err
	}

	if pk == nil || !own.Equal(pk) {
		return newError(ErrSecretKeyNotAvailable, xerrors.Errorf("unknown public key %v", pk))
	}

	return nil
}

func (b *LedgerBackend) sign(ctx context.Context, ins byte, payload []byte) (crypto.Signature, error) {
	data := append(b.pathBytes(), payload...)

	resp, err := b.exec(ctx, func(dev Device) ([]byte, error) {
		var resp []byte

		for start := 0; start < len(data); start += chunkSize {
			end := start + chunkSize
			p1 := byte(p1More)

			if end >= len(data) {
				end = len(data)
				p1 = p1Last
			}

			var err error
			resp, err = exchange(dev, ins, p1, data[start:end])
			if err != nil {
				return nil, err
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	sig, err := ed25519.NewSignature(resp)
	if err != nil {
		return nil, newError(ErrIO, err)
	}

	return sig, nil
}

// exec runs the function on the worker of the device. The device is opened
// for the duration of the function.
func (b *LedgerBackend) exec(ctx context.Context, fn func(Device) ([]byte, error)) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	select {
	case <-b.quit:
		return nil, newError(ErrDevice, errClosed)
	default:
	}

	b.once.Do(func() {
		go func() {
			for {
				select {
				case task := <-b.tasks:
					task()
				case <-b.quit:
					return
				}
			}
		}()
	})

	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)

	task := func() {
		data, err := b.run(fn)
		done <- result{data: data, err: err}
	}

	select {
	case b.tasks <- task:
	case <-b.quit:
		return nil, newError(ErrDevice, errClosed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-done:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run opens the device and calls the function. A panic is returned as an
// error.
func (b *LedgerBackend) run(fn func(Device) ([]byte, error)) (data []byte, err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = newError(ErrTask, xerrors.Errorf("%v", r))
		}
	}()

	dev, err := b.open()
	if err != nil {
		return nil, newError(ErrDevice, err)
	}

	defer dev.Close()

	return fn(dev)
}

func (b *LedgerBackend) pathBytes() []byte {
	out := make([]byte, 4*len(b.path))
	for i, index := range b.path {
		binary.BigEndian.PutUint32(out[4*i:], index)
	}

	return out
}

func exchange(dev Device, ins, p1 byte, data []byte) ([]byte, error) {
	command := append([]byte{claNear, ins, p1, networkID, byte(len(data))}, data...)

	resp, err := dev.Exchange(command)
	if err != nil {
		if err.Error() == ledger.ErrorMessage(statusBufferOverflow) {
			return nil, ErrBufferOverflow
		}

		return nil, newError(ErrIO, err)
	}

	return resp, nil
}
