package controller

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/network"
)

func TestController_SetCommands(t *testing.T) {
	builder := client.NewBuilder("test", new(bytes.Buffer), Flags("testnet", "", ""), NewController())

	app := builder.Build().(*urfave.App)
	require.Subset(t, flagNames(app.Flags), []string{NetworkFlag, NetworkFileFlag, CacheFlag})
	require.Equal(t, "network", app.Commands[0].Name)
	require.Equal(t, "show", app.Commands[0].Subcommands[0].Name)
}

func TestController_Run(t *testing.T) {
	out := new(bytes.Buffer)

	builder := client.NewBuilder("test", out, Flags("testnet", "", ""), NewController())

	err := builder.Build().Run([]string{"test", "network", "show"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "name: testnet")
	require.Contains(t, out.String(), "url: https://rpc.testnet.near.org")

	out.Reset()

	err = builder.Build().Run([]string{"test", "-n", "mainnet", "network", "show"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "name: mainnet")

	err = builder.Build().Run([]string{"test", "-n", "devnet", "network", "show"})
	require.EqualError(t, err,
		"couldn't start the initializer: couldn't load network: unknown network 'devnet'")
}

func TestController_OnStartStop(t *testing.T) {
	inj := client.NewInjector()

	err := NewController().OnStart(client.FlagSet{NetworkFlag: "mainnet"}, inj)
	require.NoError(t, err)

	var net *network.Config
	require.NoError(t, inj.Resolve(&net))
	require.Equal(t, "mainnet", net.Name)

	require.NoError(t, NewController().OnStop(inj))

	err = NewController().OnStop(client.NewInjector())
	require.EqualError(t, err, "injector: couldn't find dependency for '*network.Config'")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "localnet.yaml")

	data := []byte("name: localnet\nrpc_endpoints:\n- url: http://127.0.0.1:3030\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	net, err := Load(client.FlagSet{
		NetworkFlag:     "mainnet",
		NetworkFileFlag: path,
		CacheFlag:       filepath.Join(dir, "cache.db"),
	})
	require.NoError(t, err)
	require.Equal(t, "localnet", net.Name)
	require.Equal(t, "http://127.0.0.1:3030", net.RPCEndpoints[0].URL)
	require.Equal(t, filepath.Join(dir, "cache.db"), net.CachePath)

	_, err = Load(client.FlagSet{NetworkFileFlag: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't load network: couldn't read file: ")
}

func TestShowAction_Execute(t *testing.T) {
	out := new(bytes.Buffer)
	inj := client.NewInjector()
	inj.Inject(network.Testnet())

	ctx := client.Context{
		Ctx:      context.Background(),
		Injector: inj,
		Flags:    client.FlagSet{},
		Out:      out,
	}

	err := showAction{}.Execute(ctx)
	require.NoError(t, err)
	require.Contains(t, out.String(), "relayer_url: http://localhost:3030/relay")

	ctx.Injector = client.NewInjector()

	err = showAction{}.Execute(ctx)
	require.EqualError(t, err, "injector: couldn't find dependency for '*network.Config'")
}

// -----------------------------------------------------------------------------
// Utility functions

func flagNames(flags []urfave.Flag) []string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.Names()[0]
	}

	return names
}
