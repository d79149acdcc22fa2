// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/internal/utils"
	"github.com/MKhiriev/go-mind-keeper/internal/validators"
	"github.com/MKhiriev/go-mind-keeper/models"
)

const mediaBucket = "media"

type shareService struct {
	queue  store.SharedQueue
	auth   store.SharedAuthStore
	remote adapter.RemoteStore
	uuid   *utils.UUIDGenerator
	log    *logger.Logger
}

// NewShareService constructs the share-extension entry point.
func NewShareService(queue store.SharedQueue, auth store.SharedAuthStore, remote adapter.RemoteStore, log *logger.Logger) ShareService {
	return &shareService{
		queue:  queue,
		auth:   auth,
		remote: remote,
		uuid:   utils.NewUUIDGenerator(),
		log:    log,
	}
}

// HandleShare classifies the payload and writes the item directly when the
// shared-auth bridge holds a usable credential, falling back to the shared
// queue otherwise. Direct-write failures fall back silently: in the share
// extension the queue is the error handler.
func (s *shareService) HandleShare(ctx context.Context, payload models.SharePayload) error {
	if payload.Empty() {
		return ErrEmptyShare
	}
	if err := validators.ValidateSharePayload(payload); err != nil {
		return fmt.Errorf("validate share payload: %w", err)
	}

	contentType := payload.Classify()
	pending := models.PendingItem{
		ID:          s.uuid.Generate(),
		URL:         strings.TrimSpace(payload.URL),
		Text:        payload.Text,
		ContentType: contentType,
		Status:      models.PendingStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	cred, err := s.auth.Get(ctx)
	if err != nil {
		s.log.Warn().Str("func", "shareService.HandleShare").Err(err).Msg("shared auth lookup failed")
		cred = nil
	}
	if cred == nil {
		return s.enqueue(ctx, pending)
	}

	pending.UserID = cred.UserID
	if err = s.directWrite(ctx, *cred, payload, contentType); err != nil {
		s.log.Warn().Str("func", "shareService.HandleShare").Err(err).Msg("direct write failed, enqueueing")
		return s.enqueue(ctx, pending)
	}
	return nil
}

func (s *shareService) enqueue(ctx context.Context, pending models.PendingItem) error {
	if err := s.queue.Enqueue(ctx, pending); err != nil {
		return fmt.Errorf("enqueue shared item: %w", err)
	}
	return nil
}

func (s *shareService) directWrite(ctx context.Context, cred models.SharedCredential, payload models.SharePayload, contentType models.ContentType) error {
	s.remote.SetSession(cred.AccessToken)

	now := time.Now().UTC()
	item := models.Item{
		ID:          s.uuid.Generate(),
		UserID:      cred.UserID,
		URL:         strings.TrimSpace(payload.URL),
		Content:     payload.Text,
		ContentType: contentType,
		Title:       provisionalTitle(payload),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Attachments go to object storage first so the item row already
	// carries their public URLs.
	if len(payload.Images) > 0 {
		publicURL, err := s.uploadAttachment(ctx, cred.UserID, item.ID, payload.Images[0])
		if err != nil {
			return fmt.Errorf("upload shared image: %w", err)
		}
		item.ThumbnailURL = publicURL
	}
	if len(payload.Videos) > 0 {
		publicURL, err := s.uploadAttachment(ctx, cred.UserID, item.ID, payload.Videos[0])
		if err != nil {
			return fmt.Errorf("upload shared video: %w", err)
		}
		item.URL = publicURL
	}

	if err := s.remote.InsertItem(ctx, item); err != nil {
		return fmt.Errorf("insert shared item remotely: %w", err)
	}
	return nil
}

// uploadAttachment reads a local attachment file and uploads it. A reference
// that is not a readable file is taken to be an already-public URL and is
// returned as-is.
func (s *shareService) uploadAttachment(ctx context.Context, userID, itemID, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			return ref, nil
		}
		return "", fmt.Errorf("read attachment %s: %w", ref, err)
	}

	name := filepath.Base(ref)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	publicURL, err := s.remote.Upload(ctx, mediaBucket, userID+"/"+itemID+"/"+name, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload attachment %s: %w", name, err)
	}
	return publicURL, nil
}

func provisionalTitle(payload models.SharePayload) string {
	if text := strings.TrimSpace(payload.Text); text != "" {
		line := text
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		return truncateText(line, 120)
	}
	if payload.URL != "" {
		return hostMetadata(payload.URL).Title
	}
	return "Shared item"
}
