package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/localdb"
	"taskdeck/internal/logging"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskdeck %s\n", version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskdeck: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	db, err := localdb.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open settings db: %w", err)
	}
	defer db.Close()

	session := store.NewSessionStore(db)
	prefs := store.NewPrefStore(db)
	tasks := store.NewTaskStore()
	comments := store.NewCommentStore()

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout)

	app := ui.NewApp(client, session, prefs, tasks, comments, log)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
