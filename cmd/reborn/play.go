package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hosler/pyReborn-sub001/internal/capture"
	"github.com/hosler/pyReborn-sub001/internal/client"
	"github.com/hosler/pyReborn-sub001/internal/core"
	"github.com/hosler/pyReborn-sub001/internal/debug"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Connect to the configured server and log session events",
	Run:   PlayCommand,
}

const loginTimeout = 30 * time.Second

func PlayCommand(_ *cobra.Command, _ []string) {
	cfg, err := core.LoadConfig(ConfigFlag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger, err := core.NewLogger(cfg)
	if err != nil {
		fmt.Println("error initializing logger:", err)
		os.Exit(1)
	}

	if cfg.Debugging.PprofEnabled {
		debug.StartPprofServer(logger, cfg.Debugging.PprofPort)
	}

	opts := client.Options{
		Version:       cfg.Server.Version,
		Logger:        logger,
		DownloadTTL:   time.Duration(cfg.Downloads.CacheTTL) * time.Second,
		PacketLogging: cfg.Debugging.PacketLoggingEnabled,
	}

	if dir, err := cfg.DownloadsDir(); err == nil {
		opts.DownloadsDir = dir
	} else {
		logger.Warnf("downloads disabled: %v", err)
	}

	if cfg.Debugging.PacketAnalyzerAddress != "" {
		opts.Analyzer = debug.NewAnalyzerExporter(logger, cfg.Debugging.PacketAnalyzerAddress)
	}

	if cfg.Capture.Enabled {
		store, err := capture.NewStore(cfg, cfg.Debugging.PacketLoggingEnabled)
		if err != nil {
			logger.Errorf("error opening capture store: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Capture = store
	}

	c, err := client.New(opts)
	if err != nil {
		logger.Errorf("error creating client: %v", err)
		os.Exit(1)
	}

	subscribeLoggers(c, logger)

	if err := c.Connect(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Errorf("error connecting: %v", err)
		os.Exit(1)
	}
	defer c.Disconnect()

	if err := c.Login(cfg.Account.Name, cfg.Account.Password, loginTimeout); err != nil {
		logger.Errorf("error logging in: %v", err)
		os.Exit(1)
	}

	if cfg.Account.Nickname != "" {
		if err := c.SetNickname(cfg.Account.Nickname); err != nil {
			logger.Warnf("error setting nickname: %v", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-interrupt:
			logger.Info("shutting down")
			return
		default:
		}

		if _, err := c.Update(250 * time.Millisecond); err != nil {
			logger.Errorf("session ended: %v", err)
			return
		}
		if c.State() == client.StateDisconnected {
			return
		}
	}
}

// subscribeLoggers wires a handler for the event kinds worth echoing to the
// terminal during an interactive session.
func subscribeLoggers(c *client.Client, logger *logrus.Logger) {
	c.Subscribe(client.EventChatReceived, func(ev client.Event) {
		logger.Infof("[chat %d] %s", ev.PlayerID, ev.Text)
	})
	c.Subscribe(client.EventPrivateMessage, func(ev client.Event) {
		logger.Infof("[pm %d] %s", ev.PlayerID, ev.Text)
	})
	c.Subscribe(client.EventServerText, func(ev client.Event) {
		logger.Infof("[server] %s", ev.Text)
	})
	c.Subscribe(client.EventAdminMessage, func(ev client.Event) {
		logger.Infof("[admin] %s", ev.Text)
	})
	c.Subscribe(client.EventPlayerAdded, func(ev client.Event) {
		logger.Infof("player %d entered", ev.PlayerID)
	})
	c.Subscribe(client.EventPlayerRemoved, func(ev client.Event) {
		logger.Infof("player %d left", ev.PlayerID)
	})
	c.Subscribe(client.EventLevelChanged, func(ev client.Event) {
		logger.Infof("entered level %s", ev.Text)
	})
	c.Subscribe(client.EventFileReceived, func(ev client.Event) {
		logger.Infof("received file %s (%d bytes)", ev.File.Filename, len(ev.File.Data))
	})
	c.Subscribe(client.EventDisconnected, func(ev client.Event) {
		logger.Infof("disconnected by server: %s", ev.Text)
	})
}
