package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/rpc/cache"
	"go.dedis.ch/nearapi/core/rpc/jsonrpc"
	"go.dedis.ch/nearapi/internal/testing/fake"
)

func TestPresets(t *testing.T) {
	cfg := Mainnet()
	require.Equal(t, "mainnet", cfg.Name)
	require.Equal(t, "near", cfg.LinkdropAccountID.String())
	require.Empty(t, cfg.RelayerURL)

	cfg = Testnet()
	require.Equal(t, "testnet", cfg.Name)
	require.NotEmpty(t, cfg.RelayerURL)
	require.Equal(t, "pool.f863973.m0", cfg.StakingPoolsFactoryAccountID.String())
}

func TestFromName(t *testing.T) {
	cfg, err := FromName("testnet")
	require.NoError(t, err)
	require.Equal(t, "testnet", cfg.Name)

	_, err = FromName("devnet")
	require.EqualError(t, err, "unknown network 'devnet'")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.yaml")

	data := []byte(`
name: localnet
rpc_endpoints:
  - url: http://127.0.0.1:3030
    bearer: abc
relayer_url: http://127.0.0.1:3031/relay
linkdrop_account_id: test.near
`)
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "localnet", cfg.Name)
	require.Len(t, cfg.RPCEndpoints, 1)
	require.Equal(t, "abc", cfg.RPCEndpoints[0].Bearer)
	require.Equal(t, "test.near", cfg.LinkdropAccountID.String())
	require.Nil(t, cfg.StakingPoolsFactoryAccountID)

	out, err := cfg.Marshal()
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, cfg.RPCEndpoints, again.RPCEndpoints)
	require.Equal(t, cfg.RelayerURL, again.RelayerURL)

	_, err = LoadFile(filepath.Join(t.TempDir(), "unknown.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't read file: ")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("name: [a"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't decode configuration: ")

	_, err = Parse([]byte("unknown: field"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't decode configuration: ")

	_, err = Parse([]byte("rpc_endpoints: []"))
	require.EqualError(t, err, "missing network name")

	_, err = Parse([]byte("name: abc"))
	require.EqualError(t, err, "network 'abc' has no rpc endpoint")
}

func TestConfig_Transport(t *testing.T) {
	cfg := Testnet()

	tr, err := cfg.Transport()
	require.NoError(t, err)
	require.IsType(t, &jsonrpc.Client{}, tr)

	again, err := cfg.Transport()
	require.NoError(t, err)
	require.Same(t, tr, again)

	require.NoError(t, cfg.Close())

	fakeTr := fake.NewTransport(nil)
	cfg.WithTransport(fakeTr)

	tr, err = cfg.Transport()
	require.NoError(t, err)
	require.Same(t, fakeTr, tr)

	cfg = &Config{Name: "empty"}
	_, err = cfg.Transport()
	require.EqualError(t, err, "network 'empty' has no rpc endpoint")
}

func TestConfig_TransportWithCache(t *testing.T) {
	cfg := Testnet()
	cfg.CachePath = filepath.Join(t.TempDir(), "cache.db")

	tr, err := cfg.Transport()
	require.NoError(t, err)
	require.IsType(t, &cache.Transport{}, tr)

	require.NoError(t, cfg.Close())
	require.NoError(t, cfg.Close())

	cfg.CachePath = filepath.Join(t.TempDir(), "unknown", "cache.db")
	_, err = cfg.Transport()
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't open cache: ")
}
