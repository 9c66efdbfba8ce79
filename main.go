package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/emojistats"
	"github.com/itizir/blobstats/logger"
	"github.com/itizir/blobstats/store"
)

var (
	register   = flag.Bool("register", false, "register bot commands with discord; add the -cleanup flag to first remove any old commands")
	cleanup    = flag.Bool("cleanup", false, "when running with -register, also first remove any previously registered commands")
	configPath = flag.String("config", "", "optional config file (yaml, json or toml); environment variables take precedence")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	v := newViper()
	cfg, err := loadConfig(ctx, v, *configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	watchConfig(v, log)

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return err
	}
	s.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	if *register {
		if err := s.Open(); err != nil {
			return err
		}
		defer s.Close()

		appID := cfg.AppID
		if appID == "" {
			appID = s.State.User.ID
		}
		if *cleanup {
			if err := cleanupCommands(s, log, appID, cfg.GuildID); err != nil {
				return err
			}
		}
		cmds := newDispatcher(emojistats.NewCommands(cfg.statsConfig(), nil, log), log).commands
		return registerCommands(s, log, appID, cfg.GuildID, cmds)
	}

	st, err := store.Open(ctx, cfg.storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	d := newDispatcher(emojistats.NewCommands(cfg.statsConfig(), st, log), log)
	counter := emojistats.NewCounter(st, log, cfg.StoreTimeout)

	s.AddHandler(d.handle)
	s.AddHandler(counter.OnMessageCreate)

	srv := &interactionServer{token: cfg.Token, handle: d.handle, log: log}
	if cfg.PublicKey != "" {
		if srv.pubKey, err = parsePubKey(cfg.PublicKey); err != nil {
			return err
		}
	}
	go listenAndServe(cfg.Port, newMux(srv), log)

	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	log.Info("bot now connected and ready, press Ctrl+C to exit", "store", cfg.StoreBackend, "reference_guild", cfg.ReferenceGuildID)
	<-stop

	return nil
}
