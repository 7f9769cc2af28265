package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"

	"wconsole/internal/app"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Config      string        `help:"Config file (JSON or YAML)."                     short:"c" type:"path" env:"WCONSOLE_CONFIG"`
	URL         string        `help:"Webhook URL; overrides webhook.url."              name:"url"     env:"WCONSOLE_URL"`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address."       name:"metrics-addr"`
	LogLevel    string        `help:"Diagnostic log level (trace..error)."            name:"log-level"`
	Watch       bool          `help:"Reload the config file when it changes."`
	Wait        time.Duration `help:"How long to wait for in-flight deliveries on exit." default:"15s"`

	Send  sendCmd  `cmd:"" help:"Send one message."`
	Pipe  pipeCmd  `cmd:"" help:"Send every stdin line as a message."`
	Table tableCmd `cmd:"" help:"Send JSON data rendered as a table."`
}

// stdin is bound for commands that read input.
type stdin struct{ io.Reader }

func run(ctx context.Context, in io.Reader, exit func(int), args ...string) (err error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("wconsole"),
		kong.Description("Send console-style messages to a chat webhook."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(stdin{in}),
	)
	if err != nil {
		return err
	}
	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	a, err := app.New(app.Options{
		ConfigPath:  cli.Config,
		URL:         cli.URL,
		MetricsAddr: cli.MetricsAddr,
		Watch:       cli.Watch,
		LogLevel:    cli.LogLevel,
	})
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cli.Wait)
		defer cancel()
		if serr := a.Stop(sctx); serr != nil && err == nil {
			err = serr
		}
		if err == nil {
			if st := a.Stats(); st.Failed > 0 {
				err = fmt.Errorf("%d of %d deliveries failed", st.Failed, st.Failed+st.Sent)
			}
		}
	}()

	return ktx.Run(a)
}
