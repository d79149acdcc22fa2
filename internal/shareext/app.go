// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package shareext implements the short-lived share-extension process
// runtime: it accepts one shared payload, hands it to the share service, and
// exits.
package shareext

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/models"
)

// App is the share-extension process.
type App struct {
	services *service.ShareServices
	log      *logger.Logger
}

func NewApp(services *service.ShareServices, log *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("shareext.NewApp: nil services")
	}
	return &App{services: services, log: log}, nil
}

// Handle processes a single shared payload and returns. The extension
// process has a tight platform lifetime, so there is nothing long-running
// here.
func (a *App) Handle(ctx context.Context, payload models.SharePayload) error {
	if err := a.services.Share.HandleShare(ctx, payload); err != nil {
		return fmt.Errorf("handle share: %w", err)
	}
	a.log.Info().Str("func", "App.Handle").Str("url", payload.URL).Msg("share accepted")
	return nil
}
