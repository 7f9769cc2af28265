package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"wconsole/internal/app"
	"wconsole/pkg/envelope"
)

type sendCmd struct {
	Level   string   `help:"Severity." short:"l" default:"log" enum:"log,info,debug,warn,error,trace,assert"`
	Message []string `arg:"" help:"Format string followed by its arguments."`
}

func (c *sendCmd) Run(a *app.App) error {
	args := make([]any, len(c.Message))
	for i, m := range c.Message {
		args[i] = m
	}
	con := a.Console()
	switch c.Level {
	case "info":
		con.Info(args...)
	case "debug":
		con.Debug(args...)
	case "warn":
		con.Warn(args...)
	case "error":
		con.Error(args...)
	case "trace":
		con.Trace(args...)
	case "assert":
		con.Assert(false, args...)
	default:
		con.Log(args...)
	}
	return nil
}

type pipeCmd struct {
	Level string `help:"Severity of every line." short:"l" default:"log" enum:"log,info,debug,warn,error"`
	Tee   bool   `help:"Copy input to stdout."`
}

func (c *pipeCmd) Run(ctx context.Context, a *app.App, in stdin) error {
	level, ok := envelope.ParseLevel(c.Level)
	if !ok {
		return fmt.Errorf("unknown level %q", c.Level)
	}
	w := a.Console().Writer(level)

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := sc.Text()
		if c.Tee {
			fmt.Fprintln(os.Stdout, line)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

type tableCmd struct {
	Columns []string `help:"Only show these columns." short:"k"`
	Input   string   `arg:"" optional:"" default:"-" help:"JSON file, or '-' for stdin."`
}

func (c *tableCmd) Run(a *app.App, in stdin) error {
	var r io.Reader = in
	if c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var data any
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("table input: %w", err)
	}
	a.Console().Table(data, c.Columns...)
	return nil
}
