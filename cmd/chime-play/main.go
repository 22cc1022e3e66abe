// ABOUTME: Entry point for the chime-play CLI
// ABOUTME: Loads sound files into the engine and plays them, optionally with a TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chime-Audio/chime-go/internal/config"
	"github.com/Chime-Audio/chime-go/internal/ui"
	"github.com/Chime-Audio/chime-go/pkg/chime"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	configPath = flag.String("config", "", "Config file path (YAML/TOML/JSON)")
	backend    = flag.String("backend", "", "Backend override: default or disabled")
	streamed   = flag.Bool("streamed", false, "Decode sounds in chunks while playing instead of preloading")
	loop       = flag.Bool("loop", false, "Loop playback")
	fade       = flag.Float64("fade", 0.2, "Fade time in seconds")
	gain       = flag.Float64("gain", 1.0, "Playback gain (0-1)")
	resampleTo = flag.Bool("resample", false, "Resample decoded sounds to the engine rate")
	useTUI     = flag.Bool("tui", false, "Start the interactive TUI")
	logFile    = flag.String("log-file", "chime-play.log", "Log file path")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: chime-play [flags] files...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	if *useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *resampleTo {
		opts.ConvertStream = chime.ResampleTo(opts.SampleRate)
	}

	mgr, err := chime.New(opts)
	if err != nil {
		log.Fatalf("engine error: %v", err)
	}
	defer mgr.Close()

	bufferMode := chime.BufferModeFull
	if *streamed {
		bufferMode = chime.BufferModeStreamed
	}
	mgr.CreateCategory("default", bufferMode, chime.SourceModeRAM)

	var names []string
	for _, file := range flag.Args() {
		sound, err := mgr.CreateSound(file, "default", "")
		if err != nil {
			log.Printf("skipping %s: %v", file, err)
			continue
		}
		names = append(names, sound.Name())
		log.Printf("loaded %s (%s, %.2fs)", sound.Name(), sound.Format(), sound.Duration())
	}
	if len(names) == 0 {
		log.Fatal("no playable files")
	}

	if *useTUI {
		runTUI(mgr)
		return
	}

	for _, name := range names {
		if err := mgr.Play(name, *fade, *loop, *gain); err != nil {
			log.Printf("could not play %s: %v", name, err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case sig := <-sigChan:
			log.Printf("received %v, fading out", sig)
			mgr.StopAll(*fade)
			time.Sleep(time.Duration((*fade + 0.1) * float64(time.Second)))
			return
		case <-ticker.C:
			if *loop {
				continue
			}
			active := 0
			for _, name := range names {
				active += mgr.PlayingCount(name) + mgr.FadingCount(name)
			}
			if active == 0 {
				log.Printf("playback finished")
				return
			}
		}
	}
}

func runTUI(mgr *chime.Manager) {
	p := tea.NewProgram(ui.NewModel(mgr, *fade, *loop), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}
