package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	engine "blockpath/engine"
	"blockpath/engine/internal/app"
)

func main() {
	var cfg app.Config
	flag.StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	flag.StringVar(&cfg.WorldPath, "world", "world.yaml", "world document to serve")
	flag.BoolVar(&cfg.Watch, "watch", false, "reload the world document on change")
	flag.StringVar(&cfg.LogJSONPath, "log-json", "", "append NDJSON events to this file")
	flag.BoolVar(&cfg.Observability.EnablePprof, "pprof", false, "mount pprof endpoints")
	flag.Parse()

	cfg.Engine = engine.DefaultConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
