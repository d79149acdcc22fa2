package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidUserID      = errors.New("invalid user ID")
	ErrInvalidURL         = errors.New("invalid url")
	ErrEmptyName          = errors.New("name is required")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidOrderIndex  = errors.New("invalid order index")
	ErrEmptyPayload       = errors.New("share payload is empty")
	ErrInvalidAttachment  = errors.New("invalid attachment reference")
)
