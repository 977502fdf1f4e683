package client

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/ucli"
	"golang.org/x/xerrors"
)

// TimeoutFlag is the name of the flag that bounds the duration of an action.
// There is no bound when it is zero or not defined.
const TimeoutFlag = "timeout"

// CLIBuilder is an application builder that will build a CLI whose actions
// use the components of the initializers.
//
// - implements client.Builder
// - implements cli.Builder
type CLIBuilder struct {
	cli.Builder

	inits  []Initializer
	writer io.Writer

	// notify returns the context of an action. It is canceled on an
	// interruption signal in production.
	notify func(context.Context) (context.Context, context.CancelFunc)
}

// NewBuilder returns a new builder of the application with the global flags.
// The actions print to the writer, or to the standard output if it is nil.
func NewBuilder(name string, out io.Writer, flags []cli.Flag, inits ...Initializer) *CLIBuilder {
	if out == nil {
		out = os.Stdout
	}

	builder := ucli.NewBuilder(name, flags,
		ucli.WithUsage("interact with a NEAR network"),
		ucli.WithVersion(nearapi.Version),
		ucli.WithWriter(out))

	return &CLIBuilder{
		Builder: builder,
		inits:   inits,
		writer:  out,
		notify: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		},
	}
}

// MakeAction implements client.Builder. It creates a CLI action from the
// template. The initializers are started before the template is executed, and
// stopped in reverse order afterwards.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	return func(flags cli.Flags) (err error) {
		inj := NewInjector()

		started := 0

		defer func() {
			stopErr := b.stop(inj, started)
			if err == nil {
				err = stopErr
			}
		}()

		for _, init := range b.inits {
			err = init.OnStart(flags, inj)
			if err != nil {
				return xerrors.Errorf("couldn't start the initializer: %v", err)
			}

			started++
		}

		ctx, cancel := b.notify(context.Background())
		defer cancel()

		if flags != nil {
			timeout := flags.Duration(TimeoutFlag)
			if timeout > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
				defer cancelTimeout()
			}
		}

		return tmpl.Execute(Context{
			Ctx:      ctx,
			Injector: inj,
			Flags:    flags,
			Out:      b.writer,
		})
	}
}

// Build implements cli.Builder. It returns the application with the commands
// of the initializers.
func (b *CLIBuilder) Build() cli.Application {
	for _, init := range b.inits {
		init.SetCommands(b)
	}

	return b.Builder.Build()
}

// stop stops the first n initializers. Every initializer is stopped even when
// one fails, and the first error is returned.
func (b *CLIBuilder) stop(inj Injector, n int) error {
	var first error

	for i := n - 1; i >= 0; i-- {
		err := b.inits[i].OnStop(inj)
		if err != nil {
			nearapi.Logger.Warn().Err(err).Msg("initializer failed to stop")

			if first == nil {
				first = xerrors.Errorf("couldn't stop the initializer: %v", err)
			}
		}
	}

	return first
}
