package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/app"
	"github.com/MKhiriev/go-mind-keeper/internal/config"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/internal/shareext"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/models"
)

func main() {
	// payload flags must be registered before the config layer parses the
	// shared flag set
	shareURL := flag.String("url", "", "Shared link")
	shareText := flag.String("text", "", "Shared text")
	shareImages := flag.String("images", "", "Comma-separated shared image file paths")
	shareVideos := flag.String("videos", "", "Comma-separated shared video file paths")

	cfg, err := config.GetShareConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFileLogger("mind-keeper-share", cfg.Logs.Dir)

	ctx := context.Background()

	storages, err := store.NewShareStorages(ctx, cfg.GroupDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	remote := adapter.NewRemoteStore(adapter.RemoteConfig{
		BaseURL: cfg.Remote.BaseURL,
		AnonKey: cfg.Remote.AnonKey,
		Timeout: cfg.Remote.RequestTimeout,
	})

	services := service.NewShareServices(storages, remote, log)

	shareApp, err := shareext.NewApp(services, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init share app error")
	}

	payload := models.SharePayload{
		URL:    *shareURL,
		Text:   *shareText,
		Images: splitPaths(*shareImages),
		Videos: splitPaths(*shareVideos),
	}

	if err = shareApp.Handle(ctx, payload); err != nil {
		// the host shows stderr as the share sheet's failure toast
		fmt.Fprintln(os.Stderr, app.UserMessage(err))
		log.Fatal().Err(err).Msg("share error")
	}
}

func splitPaths(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
