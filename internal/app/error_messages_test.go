package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/internal/validators"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no user", service.ErrNoUser, MsgNotSignedIn},
		{"unauthorized", adapter.ErrUnauthorized, MsgSessionExpired},
		{"empty draft", service.ErrEmptyDraft, MsgNothingToSave},
		{"empty share", service.ErrEmptyShare, MsgNothingToSave},
		{"invalid url", validators.ErrInvalidURL, MsgInvalidLink},
		{"item missing", service.ErrItemNotFound, MsgItemNotFound},
		{"space missing", service.ErrSpaceNotFound, MsgSpaceNotFound},
		{"conflict", adapter.ErrConflict, MsgAlreadyExists},
		{"unknown", errors.New("dial tcp: timeout"), MsgSaveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

// обернутые ошибки тоже должны распознаваться
func TestUserMessage_WrappedError(t *testing.T) {
	err := fmt.Errorf("create item: %w", service.ErrItemNotFound)
	assert.Equal(t, MsgItemNotFound, UserMessage(err))
}
