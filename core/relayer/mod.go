// Package relayer implements the client of a relayer. A relayer wraps the
// signed delegate actions of its users into transactions it pays for.
package relayer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/serde"
	"go.dedis.ch/nearapi/serde/json"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/xerrors"
)

// DefaultTimeout is the timeout of the requests to the relayer.
const DefaultTimeout = 30 * time.Second

var (
	// ErrRelayerNotDefined is returned when the network has no relayer.
	ErrRelayerNotDefined = xerrors.New("relayer is not defined")
	// ErrRelayerSend is returned when the relayer cannot be reached or
	// refuses the delegate action.
	ErrRelayerSend = xerrors.New("couldn't send to relayer")
)

// Error is an error of the relayer. It matches ErrRelayerSend and unwraps to
// the cause.
type Error struct {
	// StatusCode is zero when no response has been received.
	StatusCode int
	Err        error
}

// Error implements error.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: status %d: %v", ErrRelayerSend, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%v: %v", ErrRelayerSend, e.Err)
}

// Is returns true when the target is ErrRelayerSend.
func (e *Error) Is(target error) bool {
	return target == ErrRelayerSend
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Response is the answer of the relayer.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client posts signed delegate actions to the relayer of a network.
type Client struct {
	client *http.Client
	ctx    serde.Context
	logger zerolog.Logger
}

// Option is the type of option to set some fields of a client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient returns a new relayer client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{Timeout: DefaultTimeout},
		ctx:    json.NewContext(),
		logger: nearapi.Logger.With().Str("component", "relayer").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send posts the signed delegate action to the relayer of the network. A
// response with a status outside of 2xx is an error. The request is never
// retried.
func (c *Client) Send(ctx context.Context, net *network.Config,
	sda primitives.SignedDelegateAction) (*Response, error) {

	if net == nil || net.RelayerURL == "" {
		return nil, ErrRelayerNotDefined
	}

	body, err := sda.Serialize(c.ctx)
	if err != nil {
		return nil, xerrors.Errorf("couldn't serialize delegate action: %v", err)
	}

	resp, err := ctxhttp.Post(ctx, c.client, net.RelayerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Err: err}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Err: xerrors.Errorf("couldn't read body: %v", err)}
	}

	c.logger.Debug().
		Str("url", net.RelayerURL).
		Str("sender", sda.DelegateAction.SenderID).
		Int("status", resp.StatusCode).
		Msg("delegate action sent")

	if resp.StatusCode/100 != 2 {
		return nil, &Error{StatusCode: resp.StatusCode, Err: xerrors.New(string(data))}
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
