package validation

import "errors"

// ErrUnsupportedType is returned when a selected file has a disallowed MIME type
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrFileTooLarge is returned when a selected file exceeds the size cap
var ErrFileTooLarge = errors.New("file too large")

// ErrQuotaExceeded is returned when accepting a file would exceed the site asset quota
var ErrQuotaExceeded = errors.New("site asset quota exceeded")
