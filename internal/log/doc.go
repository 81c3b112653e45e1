// Package log builds the slog loggers used for diagnostics.
//
// Progress lines ("Fetching ...", "Saved ...") are not logs; the crawler
// prints them through its Reporter. This package covers the diagnostic
// stream on stderr, which is quiet (Warn) by default and detailed (Debug)
// with --verbose.
//
// Every logger wraps its handler in a SecureHandler. Request headers from the
// config file often carry cookies or API keys, and crawled URLs may carry
// tokens in their query string, so both are masked before anything is
// written:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose, log.WithSensitiveKeys("X-Tenant-Key"))
//	logger.Warn("fetch failed", "url", "https://example.test/?token=abc")
//	// url=https://example.test/?token=***REDACTED***
package log
