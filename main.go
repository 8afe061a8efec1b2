package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CodedInternet/gominer/comms"
	"github.com/CodedInternet/gominer/onboard"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

const (
	EXIT_CONFIG   = 2
	EXIT_HARDWARE = 3
	EXIT_BIND     = 4

	SHUTDOWN_TIMEOUT = 5 * time.Second
)

func main() {
	app := cli.NewApp()
	app.Name = "gominer"
	app.Usage = "run the on-board mining robot controller"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Value:  "robot.yaml",
			Usage:  "yaml config file",
			EnvVar: "MINER_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "trace, debug, info, warn or error",
			EnvVar: "MINER_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "mode",
			Usage: "override the configured mode (production, test, print)",
		},
		cli.BoolFlag{
			Name:   "shell",
			Usage:  "start the development shell on stdin",
			EnvVar: "MINER_SHELL",
		},
		cli.StringFlag{
			Name:   "static",
			Usage:  "directory served at / alongside the api",
			EnvVar: "MINER_STATIC",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (cfg onboard.RobotConfig, err error) {
	cfg, err = onboard.LoadConfig(c.GlobalString("config"))
	if err != nil {
		return
	}

	if mode := c.GlobalString("mode"); mode != "" {
		cfg.Mode = mode
		err = cfg.Validate()
	}
	return
}

func openJournal(path string, l hclog.Logger) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return OpenJournal(path, l)
}

// logEvents stands in for the journal when none is configured.
func logEvents(ctx context.Context, events <-chan mechatronics.Event, l hclog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			l.Debug("dispatched", "command", ev.Command.String(), "cycle", ev.Cycle, "error", ev.Err)
		}
	}
}

func run(c *cli.Context) error {
	l := hclog.New(&hclog.LoggerOptions{
		Name:  "gominer",
		Level: hclog.LevelFromString(c.GlobalString("log-level")),
	})

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("config: %v", err), EXIT_CONFIG)
	}

	board, arduino, err := onboard.OpenBoard(cfg, os.Stdout, l.Named("board"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("hardware: %v", err), EXIT_HARDWARE)
	}
	robot, err := onboard.NewRobot(cfg, board, arduino, l)
	if err != nil {
		board.Close()
		if arduino != nil {
			arduino.Close()
		}
		return cli.NewExitError(fmt.Sprintf("hardware: %v", err), EXIT_HARDWARE)
	}
	defer robot.Close()

	var journal *Journal
	if cfg.Journal.Path != "" {
		journal, err = openJournal(cfg.Journal.Path, l)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("journal: %v", err), EXIT_CONFIG)
		}
		defer journal.Close()
	}

	conductor := comms.NewConductor(robot, nil, l)
	if journal != nil {
		conductor.Recorder = journal
	}

	status := comms.NewHub("status", l)
	commands := comms.NewHub("command", l)
	server := NewServer(conductor, journal, status, commands, c.GlobalString("static"), l)

	ln, err := net.Listen("tcp", cfg.HTTP)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("listen: %v", err), EXIT_BIND)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return robot.Run(ctx)
	})
	g.Go(func() error {
		return status.Run(ctx)
	})
	g.Go(func() error {
		return commands.Run(ctx)
	})
	g.Go(func() error {
		return conductor.UpdateClients(ctx, status, cfg.StatusRate)
	})
	g.Go(func() error {
		if journal != nil {
			return journal.Consume(ctx, robot.Events())
		}
		return logEvents(ctx, robot.Events(), l.Named("events"))
	})

	srv := &http.Server{Handler: server.Router}
	g.Go(func() error {
		l.Info("listening", "addr", ln.Addr().String(), "mode", cfg.Mode)
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if c.GlobalBool("shell") {
		shell := newShell(conductor)
		shell.Start()
		defer shell.Close()
	}

	err = g.Wait()
	l.Info("stopped", "cycles", robot.State.CycleCounter())
	return err
}
