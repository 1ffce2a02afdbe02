package storage

import "time"

// Config holds document storage configuration
type Config struct {
	Bucket        string        // Bucket name, also the first path segment under Dir
	Dir           string        // Local root directory
	BaseURL       string        // Public server URL used to build signed URLs
	SigningSecret string        // HMAC key for signed URLs
	MaxBytes      int64         // Upload size limit
	URLExpiry     time.Duration // Default validity of signed URLs
}
