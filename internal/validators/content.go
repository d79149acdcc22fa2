package validators

import (
	"context"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// Field name constants used to specify which fields should be validated.
const (
	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldURL         = "url"
	FieldName        = "name"
	FieldContentType = "content_type"
	FieldOrderIndex  = "order_index"
	FieldPayload     = "payload"
	FieldAttachments = "attachments"
)

var allowedContentTypes = []models.ContentType{
	models.ContentTypeBookmark,
	models.ContentTypeNote,
	models.ContentTypeArticle,
	models.ContentTypeYouTube,
	models.ContentTypeX,
	models.ContentTypeGitHub,
	models.ContentTypeReddit,
	models.ContentTypeImage,
	models.ContentTypePDF,
	models.ContentTypeVideo,
	models.ContentTypeAudio,
	models.ContentTypeProduct,
}

type ContentValidator struct {
}

func NewContentValidator() Validator {
	return &ContentValidator{}
}

func (v *ContentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Item:
		return v.validateItem(ctx, value, fields...)
	case *models.Item:
		return v.validateItem(ctx, *value, fields...)

	case models.Space:
		return v.validateSpace(ctx, value, fields...)
	case *models.Space:
		return v.validateSpace(ctx, *value, fields...)

	case models.SharePayload:
		return v.validateSharePayload(ctx, value, fields...)
	case *models.SharePayload:
		return v.validateSharePayload(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func isValidContentType(ct models.ContentType) bool {
	for _, t := range allowedContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (v *ContentValidator) validateItem(_ context.Context, item models.Item, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldUserID, FieldURL, FieldContentType}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if item.ID == "" {
				return ErrInvalidID
			}
		case FieldUserID:
			if item.UserID == "" {
				return ErrInvalidUserID
			}
		case FieldURL:
			if item.URL != "" && !isValidURL(item.URL) {
				return ErrInvalidURL
			}
		case FieldContentType:
			if !isValidContentType(item.ContentType) {
				return ErrInvalidContentType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ContentValidator) validateSpace(_ context.Context, space models.Space, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldUserID, FieldName, FieldOrderIndex}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if space.ID == "" {
				return ErrInvalidID
			}
		case FieldUserID:
			if space.UserID == "" {
				return ErrInvalidUserID
			}
		case FieldName:
			if strings.TrimSpace(space.Name) == "" {
				return ErrEmptyName
			}
		case FieldOrderIndex:
			if space.OrderIndex < 0 {
				return ErrInvalidOrderIndex
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ContentValidator) validateSharePayload(_ context.Context, payload models.SharePayload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPayload, FieldURL, FieldAttachments}
	}

	for _, f := range fields {
		switch f {
		case FieldPayload:
			if payload.Empty() {
				return ErrEmptyPayload
			}
		case FieldURL:
			if payload.URL != "" && !isValidURL(payload.URL) {
				return ErrInvalidURL
			}
		case FieldAttachments:
			for _, ref := range append(append([]string(nil), payload.Images...), payload.Videos...) {
				if strings.TrimSpace(ref) == "" {
					return ErrInvalidAttachment
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// ValidateSharePayload is the convenience entry point the share service
// uses; full field scoping stays available through [ContentValidator].
func ValidateSharePayload(payload models.SharePayload) error {
	return NewContentValidator().Validate(context.Background(), payload)
}
