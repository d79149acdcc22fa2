// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validItem() models.Item {
	return models.Item{
		ID:          "it-1",
		UserID:      "user-1",
		URL:         "https://example.com/post",
		ContentType: models.ContentTypeBookmark,
	}
}

func validSpace() models.Space {
	return models.Space{
		ID:         "sp-1",
		UserID:     "user-1",
		Name:       "Reading",
		OrderIndex: 0,
	}
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewContentValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		err := v.Validate(ctx, 42)
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("pointer and value both accepted", func(t *testing.T) {
		item := validItem()
		require.NoError(t, v.Validate(ctx, item))
		require.NoError(t, v.Validate(ctx, &item))
	})
}

// ---------------------------------------------------------------------------
// TestValidateItem
// ---------------------------------------------------------------------------

func TestValidateItem(t *testing.T) {
	v := NewContentValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.Item)
		fields  []string
		wantErr error
	}{
		{name: "valid", mutate: func(*models.Item) {}},
		{name: "missing id", mutate: func(i *models.Item) { i.ID = "" }, wantErr: ErrInvalidID},
		{name: "missing user", mutate: func(i *models.Item) { i.UserID = "" }, wantErr: ErrInvalidUserID},
		{name: "bad url", mutate: func(i *models.Item) { i.URL = "ftp://example.com" }, wantErr: ErrInvalidURL},
		{name: "empty url allowed for notes", mutate: func(i *models.Item) { i.URL = "" }},
		{name: "bad content type", mutate: func(i *models.Item) { i.ContentType = "spreadsheet" }, wantErr: ErrInvalidContentType},
		{name: "unknown field", mutate: func(*models.Item) {}, fields: []string{"nope"}, wantErr: ErrUnknownField},
		{name: "scoped skips other fields", mutate: func(i *models.Item) { i.ID = "" }, fields: []string{FieldURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)

			err := v.Validate(ctx, item, tt.fields...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateSpace
// ---------------------------------------------------------------------------

func TestValidateSpace(t *testing.T) {
	v := NewContentValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.Space)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.Space) {}},
		{name: "missing id", mutate: func(s *models.Space) { s.ID = "" }, wantErr: ErrInvalidID},
		{name: "blank name", mutate: func(s *models.Space) { s.Name = "   " }, wantErr: ErrEmptyName},
		{name: "negative order", mutate: func(s *models.Space) { s.OrderIndex = -1 }, wantErr: ErrInvalidOrderIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space := validSpace()
			tt.mutate(&space)

			err := v.Validate(ctx, space)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateSharePayload
// ---------------------------------------------------------------------------

func TestValidateSharePayload(t *testing.T) {
	t.Run("url payload", func(t *testing.T) {
		require.NoError(t, ValidateSharePayload(models.SharePayload{URL: "https://example.com"}))
	})

	t.Run("text payload", func(t *testing.T) {
		require.NoError(t, ValidateSharePayload(models.SharePayload{Text: "a quick note"}))
	})

	t.Run("empty payload", func(t *testing.T) {
		require.ErrorIs(t, ValidateSharePayload(models.SharePayload{}), ErrEmptyPayload)
	})

	t.Run("malformed url", func(t *testing.T) {
		require.ErrorIs(t, ValidateSharePayload(models.SharePayload{URL: "not a url"}), ErrInvalidURL)
	})

	t.Run("blank attachment", func(t *testing.T) {
		err := ValidateSharePayload(models.SharePayload{Images: []string{" "}})
		require.ErrorIs(t, err, ErrInvalidAttachment)
	})
}
