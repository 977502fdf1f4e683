// Package network defines the configuration of a network: where its nodes
// are and the optional services a client may use on it.
package network

import (
	"os"
	"sync"

	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/rpc/cache"
	"go.dedis.ch/nearapi/core/rpc/jsonrpc"
	"go.dedis.ch/nearapi/core/store/kv"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// RPCEndpoint is the address of a node with its optional bearer token.
type RPCEndpoint struct {
	URL    string `yaml:"url"`
	Bearer string `yaml:"bearer,omitempty"`
}

// Config is the configuration of a network.
type Config struct {
	Name                         string           `yaml:"name"`
	RPCEndpoints                 []RPCEndpoint    `yaml:"rpc_endpoints"`
	LinkdropAccountID            *types.AccountID `yaml:"linkdrop_account_id,omitempty"`
	FaucetURL                    string           `yaml:"faucet_url,omitempty"`
	RelayerURL                   string           `yaml:"relayer_url,omitempty"`
	StakingPoolsFactoryAccountID *types.AccountID `yaml:"staking_pools_factory_account_id,omitempty"`
	// CachePath is the path of the database of pinned responses. The cache
	// is disabled when it is empty.
	CachePath string `yaml:"cache_path,omitempty"`

	mu        sync.Mutex
	transport rpc.Transport
	db        kv.DB
}

// Mainnet returns the configuration of the main network.
func Mainnet() *Config {
	linkdrop := types.AccountID("near")
	factory := types.AccountID("poolv1.near")

	return &Config{
		Name:                         "mainnet",
		RPCEndpoints:                 []RPCEndpoint{{URL: "https://rpc.mainnet.near.org"}},
		LinkdropAccountID:            &linkdrop,
		RelayerURL:                   "",
		StakingPoolsFactoryAccountID: &factory,
	}
}

// Testnet returns the configuration of the test network.
func Testnet() *Config {
	linkdrop := types.AccountID("testnet")
	factory := types.AccountID("pool.f863973.m0")

	return &Config{
		Name:                         "testnet",
		RPCEndpoints:                 []RPCEndpoint{{URL: "https://rpc.testnet.near.org"}},
		LinkdropAccountID:            &linkdrop,
		FaucetURL:                    "https://helper.nearprotocol.com/account",
		RelayerURL:                   "http://localhost:3030/relay",
		StakingPoolsFactoryAccountID: &factory,
	}
}

// FromName returns the preset of the network name.
func FromName(name string) (*Config, error) {
	switch name {
	case "mainnet":
		return Mainnet(), nil
	case "testnet":
		return Testnet(), nil
	default:
		return nil, xerrors.Errorf("unknown network '%s'", name)
	}
}

// LoadFile reads the YAML configuration at the path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("couldn't read file: %v", err)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	err := yaml.UnmarshalStrict(data, cfg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode configuration: %v", err)
	}

	if cfg.Name == "" {
		return nil, xerrors.New("missing network name")
	}

	if len(cfg.RPCEndpoints) == 0 {
		return nil, xerrors.Errorf("network '%s' has no rpc endpoint", cfg.Name)
	}

	return cfg, nil
}

// Marshal returns the YAML configuration.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode configuration: %v", err)
	}

	return data, nil
}

// WithTransport sets the transport of the network. It is mostly useful for
// tests.
func (c *Config) WithTransport(t rpc.Transport) *Config {
	c.mu.Lock()
	c.transport = t
	c.mu.Unlock()

	return c
}

// Transport returns the transport to the first endpoint of the network. It is
// created on the first call, behind the cache of pinned responses if a path
// is configured.
func (c *Config) Transport() (rpc.Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transport != nil {
		return c.transport, nil
	}

	if len(c.RPCEndpoints) == 0 {
		return nil, xerrors.Errorf("network '%s' has no rpc endpoint", c.Name)
	}

	endpoint := c.RPCEndpoints[0]

	var opts []jsonrpc.Option
	if endpoint.Bearer != "" {
		opts = append(opts, jsonrpc.WithBearer(endpoint.Bearer))
	}

	var transport rpc.Transport = jsonrpc.NewClient(endpoint.URL, opts...)

	if c.CachePath != "" {
		db, err := kv.New(c.CachePath)
		if err != nil {
			return nil, xerrors.Errorf("couldn't open cache: %v", err)
		}

		c.db = db
		transport = cache.NewTransport(transport, db)
	}

	c.transport = transport

	return transport, nil
}

// Close releases the resources of the transport.
func (c *Config) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transport = nil

	if c.db != nil {
		err := c.db.Close()
		c.db = nil

		if err != nil {
			return xerrors.Errorf("couldn't close cache: %v", err)
		}
	}

	return nil
}
