package validation

import (
	"fmt"
	"mime"
	"path/filepath"

	"github.com/monumenta/mediasync/shared/domain"
)

type Limits struct {
	MaxFileSizeBytes int64
	MaxAssetsPerSite int
}

// Rejection pairs a rejected file with the reason it never entered the cache.
type Rejection struct {
	File domain.LocalFile
	Err  error
}

// ValidateFiles checks every selected file against the MIME allow-list, the
// per-file size cap and the site asset quota. Rejected files are collected,
// not fatal: validation of one file never blocks its siblings. currentCount
// is the number of assets already tracked for the site.
func ValidateFiles(files []domain.LocalFile, allowedMimes map[string]bool, limits Limits, currentCount int) (accepted []domain.LocalFile, rejected []Rejection) {
	for _, file := range files {
		mimeType := DetectMimeType(file.Name, file.MimeType)

		if !allowedMimes[mimeType] {
			rejected = append(rejected, Rejection{File: file,
				Err: fmt.Errorf("%w: %s (file: %s)", ErrUnsupportedType, mimeType, file.Name)})
			continue
		}

		if file.SizeBytes > limits.MaxFileSizeBytes {
			rejected = append(rejected, Rejection{File: file,
				Err: fmt.Errorf("%w: %.1f MB exceeds the %.1f MB limit (file: %s)",
					ErrFileTooLarge, FormatSizeMB(file.SizeBytes), FormatSizeMB(limits.MaxFileSizeBytes), file.Name)})
			continue
		}

		if currentCount+len(accepted) >= limits.MaxAssetsPerSite {
			rejected = append(rejected, Rejection{File: file,
				Err: fmt.Errorf("%w: site already holds %d assets (file: %s)",
					ErrQuotaExceeded, currentCount+len(accepted), file.Name)})
			continue
		}

		file.MimeType = mimeType
		accepted = append(accepted, file)
	}

	return accepted, rejected
}

// DetectMimeType returns the declared MIME type, falling back to extension
// detection when the declaration is missing or generic. An undetectable type
// stays application/octet-stream and fails the allow-list check downstream.
func DetectMimeType(filename, declared string) string {
	mimeType := declared

	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(filename)
		if detected := mime.TypeByExtension(ext); detected != "" {
			mimeType = detected
		}
	}

	if mimeType == "" {
		return "application/octet-stream"
	}

	// TypeByExtension may attach parameters ("text/plain; charset=utf-8");
	// the allow-list holds bare types.
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}

	return mimeType
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
