package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/internal/utils"
	"github.com/MKhiriev/go-mind-keeper/internal/workers"
	"github.com/MKhiriev/go-mind-keeper/models"
)

// ErrNoSession is returned by Run when no credential is stored and the
// process therefore has no user to sync for.
var ErrNoSession = errors.New("no stored session")

// resubscribeDelay is the wait before reconnecting a failed realtime stream.
const resubscribeDelay = 30 * time.Second

// App is the main app process: it owns the local cache, the background
// workers, and the realtime subscription.
type App struct {
	services *service.AppServices
	workers  *workers.Workers
	remote   adapter.RemoteStore
	auth     store.SharedAuthStore
	log      *logger.Logger
}

func NewApp(services *service.AppServices, ws *workers.Workers, remote adapter.RemoteStore, auth store.SharedAuthStore, log *logger.Logger) (*App, error) {
	if services == nil || ws == nil || remote == nil || auth == nil {
		return nil, errors.New("client.NewApp: nil dependency")
	}
	return &App{services: services, workers: ws, remote: remote, auth: auth, log: log}, nil
}

// SignIn exchanges email/password for a session, persists it through the
// shared-auth bridge, and binds the sync engine to the signed-in user.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	cred, err := a.remote.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	if err = a.auth.Save(ctx, cred); err != nil {
		a.log.Warn().Str("func", "App.SignIn").Err(err).Msg("could not persist credential for share extension")
	}

	a.services.Sync.SetUser(cred.UserID)
	return nil
}

// Run restores the stored session, starts the background workers, and
// consumes the realtime change stream until ctx is cancelled. Remote change
// events are applied on this single goroutine so they keep arrival order.
func (a *App) Run(ctx context.Context) error {
	cred, err := a.restoreSession(ctx)
	if err != nil {
		return err
	}
	a.services.Sync.SetUser(cred.UserID)

	a.workers.Run(ctx)
	defer a.workers.Stop()

	a.consumeRealtime(ctx, cred.UserID)
	return nil
}

// restoreSession loads the persisted credential, refreshing it through the
// backend when the access token has expired.
func (a *App) restoreSession(ctx context.Context) (*models.SharedCredential, error) {
	cred, err := a.auth.GetRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored session: %w", err)
	}
	if cred == nil {
		return nil, ErrNoSession
	}

	if utils.TokenExpired(cred.AccessToken) {
		refreshed, err := a.remote.RefreshSession(ctx, cred.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("refresh stale session: %w", err)
		}
		if err = a.auth.Save(ctx, refreshed); err != nil {
			a.log.Warn().Str("func", "App.restoreSession").Err(err).Msg("could not persist refreshed credential")
		}
		cred = &refreshed
	} else {
		a.remote.SetSession(cred.AccessToken)
	}

	return cred, nil
}

func (a *App) consumeRealtime(ctx context.Context, userID string) {
	for {
		events, err := a.remote.Subscribe(ctx, userID)
		if err != nil {
			a.log.Warn().Str("func", "App.consumeRealtime").Err(err).Msg("realtime subscribe failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(resubscribeDelay):
				continue
			}
		}

		for ev := range events {
			if err = a.services.Sync.ApplyRemoteChange(ctx, ev); err != nil {
				a.log.Warn().
					Str("func", "App.consumeRealtime").
					Str("table", ev.Table).
					Err(err).
					Msg("remote change not applied")
			}
		}
		if ctx.Err() != nil {
			return
		}
		a.log.Warn().Str("func", "App.consumeRealtime").Msg("realtime stream closed, reconnecting")
	}
}
