// Package jsonrpc implements the transport to a node over its JSON-RPC HTTP
// interface. It only supports the methods of the rpc package.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/xerrors"
)

// DefaultTimeout is the timeout of the HTTP requests.
const DefaultTimeout = 30 * time.Second

// maxErrorBody is the maximum number of bytes of a response body kept in an
// error.
const maxErrorBody = 512

// Client is a transport to one endpoint.
//
// - implements rpc.Transport
type Client struct {
	endpoint string
	bearer   string
	client   *http.Client
	logger   zerolog.Logger
}

// Option is the type of option to set some fields of a client.
type Option func(*Client)

// WithBearer sets the token sent in the authorization header.
func WithBearer(token string) Option {
	return func(c *Client) {
		c.bearer = token
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient returns a new client to the endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   nearapi.Logger.With().Str("endpoint", endpoint).Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the URL of the node.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type request struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      string                 `json:"id"`
	Method  rpc.Method             `json:"method"`
	Params  map[string]interface{} `json:"params"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpc.Error      `json:"error"`
}

// blockInfo is found in the result of the queries.
type blockInfo struct {
	BlockHeight uint64           `json:"block_height"`
	BlockHash   types.CryptoHash `json:"block_hash"`
	// Error is set by the node when a query fails after it has been accepted.
	Error string   `json:"error"`
	Logs  []string `json:"logs"`
}

type blockHeader struct {
	Header struct {
		Height uint64           `json:"height"`
		Hash   types.CryptoHash `json:"hash"`
	} `json:"header"`
}

// Call implements rpc.Transport. It posts the request and decodes the
// response according to the method.
func (c *Client) Call(ctx context.Context, req rpc.Request) (*rpc.Response, error) {
	id := xid.New().String()

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  req.Method,
		Params:  req.Params,
	})
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal request: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, c.transportErr(0, xerrors.Errorf("invalid request: %v", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	c.logger.Debug().
		Str("id", id).
		Str("method", string(req.Method)).
		Str("kind", string(req.Kind)).
		Msg("sending request")

	start := time.Now()

	resp, err := ctxhttp.Do(ctx, c.client, httpReq)
	if err != nil {
		return nil, c.transportErr(0, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportErr(resp.StatusCode, xerrors.Errorf("couldn't read body: %v", err))
	}

	c.logger.Debug().
		Str("id", id).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("received response")

	var msg response
	err = json.Unmarshal(data, &msg)
	if err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, c.transportErr(resp.StatusCode, xerrors.New(truncate(data)))
		}

		return nil, c.transportErr(resp.StatusCode,
			xerrors.Errorf("malformed response: %v", err))
	}

	if msg.Error != nil {
		return nil, msg.Error
	}

	if resp.StatusCode/100 != 2 {
		return nil, c.transportErr(resp.StatusCode, xerrors.New(truncate(data)))
	}

	if len(msg.Result) == 0 || string(msg.Result) == "null" {
		return nil, c.transportErr(resp.StatusCode, xerrors.New("empty result"))
	}

	return decodeResult(req, msg.Result)
}

func decodeResult(req rpc.Request, result json.RawMessage) (*rpc.Response, error) {
	out := &rpc.Response{
		Kind:    req.Kind,
		Payload: result,
	}

	switch req.Method {
	case rpc.MethodQuery:
		var info blockInfo
		err := json.Unmarshal(result, &info)
		if err != nil {
			return nil, xerrors.Errorf("malformed query result: %v", err)
		}

		if info.Error != "" {
			return nil, &rpc.Error{
				Name:    "QUERY_ERROR",
				Message: info.Error,
			}
		}

		out.BlockHeight = info.BlockHeight
		out.BlockHash = info.BlockHash
	case rpc.MethodBlock:
		var block blockHeader
		err := json.Unmarshal(result, &block)
		if err != nil {
			return nil, xerrors.Errorf("malformed block: %v", err)
		}

		out.BlockHeight = block.Header.Height
		out.BlockHash = block.Header.Hash
	}

	return out, nil
}

func (c *Client) transportErr(status int, err error) error {
	return &rpc.TransportError{
		Endpoint:   c.endpoint,
		StatusCode: status,
		Err:        err,
	}
}

func truncate(data []byte) string {
	if len(data) > maxErrorBody {
		return string(data[:maxErrorBody]) + "..."
	}

	return string(data)
}
