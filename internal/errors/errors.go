package errors

import "errors"

var (
	ErrBucketRequired      = errors.New("S3_BUCKET_NAME configuration is required")
	ErrBadEncoding         = errors.New("file encoding is not supported, ensure it is UTF-8")
	ErrEmptyTranscript     = errors.New("transcript contains no rows")
	ErrColumnNotFound      = errors.New("transcription column not found")
	ErrUnsupportedLocale   = errors.New("invalid locale or unsupported locale specified")
	ErrJobNotFound         = errors.New("job record not found")
	ErrJobTrackingDisabled = errors.New("job tracking is not configured")
)
