package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"k8s.io/klog/v2"

	"github.com/peterkuimelis/triad/internal/config"
	"github.com/peterkuimelis/triad/internal/web"
)

func main() {
	klog.InitFlags(nil)
	port := flag.Int("port", 8080, "HTTP port to listen on")
	settingsFile := flag.String("config", "triad.yaml", "path to settings file")
	flag.Parse()
	defer klog.Flush()

	if err := run(*port, *settingsFile); err != nil {
		klog.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(port int, settingsFile string) error {
	s, err := config.Load(settingsFile)
	if err != nil {
		return err
	}
	cat, err := s.Catalog()
	if err != nil {
		return err
	}
	_, opponent := s.Kinds()

	srv, err := web.NewServer(web.Options{
		Catalog:              cat,
		Rules:                s.Rules,
		Opponent:             opponent,
		MaxSuddenDeathRounds: s.SuddenDeathRounds,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	klog.Infof("triad web UI listening on http://localhost:%d", port)
	return srv.Run(ctx, fmt.Sprintf(":%d", port))
}
