package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/AdlerFarHorizons/xsftp/internal/console"
	"github.com/AdlerFarHorizons/xsftp/internal/helpers/cleanup"
	"github.com/AdlerFarHorizons/xsftp/internal/helpers/nopanic"
	"github.com/AdlerFarHorizons/xsftp/internal/link"
	"github.com/AdlerFarHorizons/xsftp/internal/xfer"
	"github.com/lattesec/log"
)

func main() {
	cleanup.Listen()
	cleanup.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xsftp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	list := fs.Bool("list", false, "List serial ports and exit")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *list {
		return listPorts(stdout, stderr)
	}

	cfg, err := loadConfig(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	conn, err := link.OpenWithRetry(&cfg.Port)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cleanup.Register(conn.Close)

	terminal, err := console.OpenTerminal(&cfg.Console)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cleanup.Register(terminal.Close)

	if !terminal.Interactive {
		log.Info().
			WithMeta("scope", "main").
			Msg("input is not a terminal, reading commands non-interactively").Send()
	}

	requests := xfer.NewRequests()
	receiver := xfer.NewReceiver(&cfg.Transfer, requests, terminal.Out)
	cleanup.Register(receiver.Close)

	dispatcher := console.NewDispatcher(&cfg.Console, terminal.In, conn, requests)
	return serve(cfg, receiver, dispatcher, conn)
}

// serve runs the receiver and the dispatcher until one of them ends and
// returns the process exit status.
func serve(cfg *Config, receiver *xfer.Receiver, dispatcher *console.Dispatcher, src io.Reader) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recvDone := make(chan error, 1)
	inputDone := make(chan error, 1)

	go func() {
		recvDone <- nopanic.Run("receiver", func() error { return receiver.Run(ctx, src) })
	}()
	go func() {
		inputDone <- nopanic.Run("dispatcher", func() error { return dispatcher.Run(ctx) })
	}()

	select {
	case err := <-inputDone:
		switch {
		case errors.Is(err, console.ErrExitRequested):
			return cfg.Console.ExitStatus
		case err != nil:
			log.Error().WithMeta("scope", "main").Msgf("console failed: %v", err).Send()
			return 1
		}
		return 0

	case err := <-recvDone:
		if err == nil {
			return 0
		}
		log.Error().WithMeta("scope", "main").Msgf("receiver stopped: %v", err).Send()
		return 1
	}
}

func listPorts(stdout, stderr io.Writer) int {
	ports, err := link.ListPorts()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if len(ports) == 0 {
		fmt.Fprintln(stdout, "no serial ports found")
		return 0
	}
	for _, p := range ports {
		fmt.Fprintln(stdout, p.String())
	}
	return 0
}
