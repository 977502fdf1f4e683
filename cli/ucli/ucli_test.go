package ucli

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/nearapi/cli"
)

func TestBuild(t *testing.T) {
	out := new(bytes.Buffer)

	builder := NewBuilder("test", nil, WithUsage("test application"),
		WithVersion("1.2.3"), WithWriter(out))

	app := builder.Build().(*urfave.App)

	require.Equal(t, "test", app.Name)
	require.Equal(t, "test application", app.Usage)
	require.False(t, app.HideVersion)

	err := app.Run([]string{"test", "--version"})
	require.NoError(t, err)
	require.Equal(t, "test version 1.2.3\n", out.String())

	app = NewBuilder("test", nil, WithWriter(io.Discard)).Build().(*urfave.App)
	require.True(t, app.HideVersion)
}

func TestSetCommand(t *testing.T) {
	builder := NewBuilder("test", nil)

	builder.SetCommand("first")
	builder.SetCommand("second")

	app := builder.Build().(*urfave.App)

	require.Len(t, app.Commands, 3)

	require.Equal(t, "first", app.Commands[0].Name)
	require.Equal(t, "second", app.Commands[1].Name)
	require.Equal(t, "help", app.Commands[2].Name)
}

func TestCommandBuilder(t *testing.T) {
	builder := NewBuilder("test", nil)
	cmd := builder.SetCommand("first")

	fakeAction := func(flags cli.Flags) error {
		return nil
	}

	cmd.SetAction(fakeAction)
	cmd.SetDescription("first action")
	cmd.SetFlags(cli.StringFlag{
		Name:     "arg",
		Usage:    "this is a test arg",
		Required: true,
		Value:    "default",
	})
	cmd.SetFlags(cli.BoolFlag{Name: "yes"})

	sub := cmd.SetSubCommand("second")
	require.Same(t, sub, cmd.SetSubCommand("second"))

	require.Len(t, builder.commands, 1)
	require.Len(t, builder.flags, 0)

	cmd2 := builder.commands[0]
	require.Len(t, cmd2.flags, 2)
	require.Len(t, cmd2.subcommands, 1)
}

func TestRun(t *testing.T) {
	builder := NewBuilder("test", []cli.Flag{
		cli.StringFlag{Name: "network", Value: "testnet"},
	}, WithWriter(io.Discard))

	var account, network string
	var verbose bool
	var timeout time.Duration

	cmd := builder.SetCommand("account")
	sub := cmd.SetSubCommand("view")
	sub.SetFlags(
		cli.StringFlag{Name: "account", Aliases: []string{"a"}, Required: true},
		cli.BoolFlag{Name: "verbose"},
		cli.DurationFlag{Name: "timeout", Value: time.Second},
	)
	sub.SetAction(func(flags cli.Flags) error {
		account = flags.String("account")
		network = flags.String("network")
		verbose = flags.Bool("verbose")
		timeout = flags.Duration("timeout")
		return nil
	})

	err := builder.Build().Run([]string{"test", "--network", "mainnet", "account", "view", "-a", "alice.near", "--verbose"})
	require.NoError(t, err)
	require.Equal(t, "alice.near", account)
	require.Equal(t, "mainnet", network)
	require.True(t, verbose)
	require.Equal(t, time.Second, timeout)

	err = builder.Build().Run([]string{"test", "account", "view"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "account")
}

func TestBuildFlags(t *testing.T) {
	in := []cli.Flag{
		cli.StringFlag{
			Name:     "name1",
			Usage:    "usage1",
			Required: true,
			Value:    "value1",
		},
		cli.StringSliceFlag{
			Name:     "name2",
			Usage:    "usage2",
			Required: true,
			Value:    []string{},
		},
		cli.DurationFlag{
			Name:     "name3",
			Usage:    "usage3",
			Required: true,
			Value:    time.Minute,
		},
		cli.IntFlag{
			Name:     "name4",
			Aliases:  []string{"n"},
			Usage:    "usage4",
			Required: true,
			Value:    1,
		},
		cli.BoolFlag{
			Name:  "name5",
			Usage: "usage5",
			Value: true,
		},
	}

	out := buildFlags(in)
	require.Len(t, out, 5)

	require.Equal(t, "name1", out[0].Names()[0])
	require.Equal(t, "name2", out[1].Names()[0])
	require.Equal(t, "name3", out[2].Names()[0])
	require.Equal(t, []string{"name4", "n"}, out[3].Names())
	require.Equal(t, "name5", out[4].Names()[0])
}

func TestBuildFlags_Panic(t *testing.T) {
	defer func() {
		r := recover()
		require.Equal(t, "flag type '<nil>' not supported", r)
	}()

	buildFlags([]cli.Flag{nil})
}

func TestMakeAction(t *testing.T) {
	res := makeAction(nil)
	require.Nil(t, res)

	isCalled := false
	fakeAction := func(flags cli.Flags) error {
		require.Nil(t, flags)
		isCalled = true
		return nil
	}

	res = makeAction(fakeAction)
	require.NotNil(t, res)

	out := res(nil)
	require.NoError(t, out)
	require.True(t, isCalled)
}
