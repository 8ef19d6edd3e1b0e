package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON configuration file")
		inputFile  = flag.String("input", "", "course file to load at startup")
		listen     = flag.String("listen", "", "HTTP listen address")
		dump       = flag.Bool("dump", false, "print all courses after loading and exit")
	)
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *inputFile != "" {
		cfg.InputFile = *inputFile
	}
	if *listen != "" {
		cfg.ListenAddress = *listen
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	if *dump {
		db := NewCourseDBWithSize(cfg.TableSize())
		if cfg.InputFile != "" {
			if _, err := db.LoadFile(cfg.InputFile); err != nil {
				log.Fatal(err)
			}
		}
		fmt.Println(strings.Join(db.ShowAll(), ""))
		return
	}

	n, err := StartNode(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.InputFile != "" {
		if _, err := n.DB.LoadFile(cfg.InputFile); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(n.Server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return n.Stop(shutdownCtx)
	})
	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}
}
