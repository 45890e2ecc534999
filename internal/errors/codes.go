// Package errors provides structured error handling for the lean-explore
// packaging pipeline.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Chunking errors (split production, part discovery)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryChunking indicates errors while splitting artifacts into parts.
	CategoryChunking Category = "CHUNKING"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound    = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileRead        = "ERR_202_FILE_READ"
	ErrCodeFileWrite       = "ERR_203_FILE_WRITE"
	ErrCodeCompressFailed  = "ERR_204_COMPRESS_FAILED"
	ErrCodeLockUnavailable = "ERR_205_LOCK_UNAVAILABLE"

	// Chunking errors (300-399)
	ErrCodeSplitFailed    = "ERR_301_SPLIT_FAILED"
	ErrCodeNoPartsFound   = "ERR_302_NO_PARTS_FOUND"
	ErrCodePartSuffix     = "ERR_303_PART_SUFFIX"
	ErrCodeTooManyParts   = "ERR_304_TOO_MANY_PARTS"
	ErrCodeSplitCancelled = "ERR_305_SPLIT_CANCELLED"

	// Validation errors (400-499)
	ErrCodeInvalidInput    = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidVersion  = "ERR_402_INVALID_VERSION"
	ErrCodeInvalidManifest = "ERR_403_INVALID_MANIFEST"
	ErrCodeChecksumFormat  = "ERR_404_CHECKSUM_FORMAT"

	// Internal errors (500-599)
	ErrCodeInternal  = "ERR_501_INTERNAL"
	ErrCodeCancelled = "ERR_502_CANCELLED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryChunking
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Every failure in the pipeline aborts the run; the only non-fatal condition
// (part size reconciliation mismatch) is logged as a warning, never raised.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeFileNotFound, ErrCodeNoPartsFound, ErrCodeTooManyParts:
		return SeverityFatal
	}
	return SeverityError
}
