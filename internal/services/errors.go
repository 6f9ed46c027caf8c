package services

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")

	ErrMissingName = errors.New("missing name")
	ErrMissingType = errors.New("missing type")
	ErrMissingData = errors.New("missing data")
	ErrInvalidData = errors.New("data is not valid base64")

	ErrStorageWrite = errors.New("storage write failed")

	ErrNotFound  = errors.New("file not found")
	ErrForbidden = errors.New("access forbidden")
	ErrIsFolder  = errors.New("folders have no content")

	ErrThumbnailMissing = errors.New("thumbnail not generated")
	ErrUnknownMimeType  = errors.New("unable to determine MIME type")
)
