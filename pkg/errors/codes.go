package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeInvalidParam  ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeConflict      ErrorCode = "COMMON_004"
	ErrCodeTimeout       ErrorCode = "COMMON_005"
	ErrCodeValidation    ErrorCode = "COMMON_006"
	ErrCodeSerialization ErrorCode = "COMMON_007"
	ErrCodeDatabaseError ErrorCode = "COMMON_008"
	ErrCodeCacheError    ErrorCode = "COMMON_009"
	ErrCodeStorageError  ErrorCode = "COMMON_010"
	ErrCodeIOError       ErrorCode = "COMMON_011"
	ErrCodeConfigError   ErrorCode = "COMMON_012"
)

// Short aliases used pervasively by the factory functions.
const (
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeInvalidParam
	CodeNotFound      = ErrCodeNotFound
	CodeConflict      = ErrCodeConflict
	CodeTimeout       = ErrCodeTimeout
	CodeValidation    = ErrCodeValidation
	CodeSerialization = ErrCodeSerialization
	CodeDatabaseError = ErrCodeDatabaseError
	CodeCacheError    = ErrCodeCacheError
	CodeStorageError  = ErrCodeStorageError
	CodeIOError       = ErrCodeIOError
	CodeConfigError   = ErrCodeConfigError
	CodeOK            = ErrorCode("OK")
	CodeUnknown       = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodePotentialParseFailed    = ErrCodePotentialParseFailed
	CodePotentialHeaderMissing  = ErrCodePotentialHeaderMissing
	CodePotentialElementMissing = ErrCodePotentialElementMissing
	CodePotentialDateMissing    = ErrCodePotentialDateMissing
	CodePotentialInvalid        = ErrCodePotentialInvalid
	CodePotentialNotFound       = ErrCodePotentialNotFound
	CodePotentialDuplicate      = ErrCodePotentialDuplicate
	CodePotentialConflict       = ErrCodePotentialConflict
	CodePathNotAFile            = ErrCodePathNotAFile
	CodePathBadFilename         = ErrCodePathBadFilename
	CodePathUnknownArchive      = ErrCodePathUnknownArchive
	CodeCatalogEmptyFilter      = ErrCodeCatalogEmptyFilter
	CodeCatalogAssembleFailed   = ErrCodeCatalogAssembleFailed
	CodeCatalogMigrationFailed  = ErrCodeCatalogMigrationFailed
	CodeCatalogWatchFailed      = ErrCodeCatalogWatchFailed
)

// Potential Parsing Error Codes
const (
	ErrCodePotentialParseFailed    ErrorCode = "POT_001"
	ErrCodePotentialHeaderMissing  ErrorCode = "POT_002"
	ErrCodePotentialElementMissing ErrorCode = "POT_003"
	ErrCodePotentialDateMissing    ErrorCode = "POT_004"
	ErrCodePotentialInvalid        ErrorCode = "POT_005"
	ErrCodePotentialNameInvalid    ErrorCode = "POT_006"
	ErrCodePotentialVersionInvalid ErrorCode = "POT_007"
	ErrCodeFunctionalInvalid       ErrorCode = "POT_008"
)

// Path Resolution Error Codes
const (
	ErrCodePathNotAFile       ErrorCode = "PATH_001"
	ErrCodePathBadFilename    ErrorCode = "PATH_002"
	ErrCodePathUnknownArchive ErrorCode = "PATH_003"
)

// Catalog Error Codes
const (
	ErrCodePotentialNotFound      ErrorCode = "CAT_001"
	ErrCodePotentialDuplicate     ErrorCode = "CAT_002"
	ErrCodePotentialConflict      ErrorCode = "CAT_003"
	ErrCodeCatalogEmptyFilter     ErrorCode = "CAT_004"
	ErrCodeCatalogAssembleFailed  ErrorCode = "CAT_005"
	ErrCodeCatalogMigrationFailed ErrorCode = "CAT_006"
	ErrCodeCatalogWatchFailed     ErrorCode = "CAT_007"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeInvalidParam:  "invalid parameter",
	ErrCodeNotFound:      "resource not found",
	ErrCodeConflict:      "resource conflict",
	ErrCodeTimeout:       "operation timeout",
	ErrCodeValidation:    "validation failed",
	ErrCodeSerialization: "serialization failed",
	ErrCodeDatabaseError: "database error",
	ErrCodeCacheError:    "cache error",
	ErrCodeStorageError:  "object storage error",
	ErrCodeIOError:       "i/o error",
	ErrCodeConfigError:   "configuration error",

	ErrCodePotentialParseFailed:    "failed to parse potential file",
	ErrCodePotentialHeaderMissing:  "potential header could not be parsed",
	ErrCodePotentialElementMissing: "potential element could not be parsed",
	ErrCodePotentialDateMissing:    "potential creation date could not be parsed",
	ErrCodePotentialInvalid:        "potential failed validity checks",
	ErrCodePotentialNameInvalid:    "invalid potential name",
	ErrCodePotentialVersionInvalid: "invalid potential version",
	ErrCodeFunctionalInvalid:       "invalid functional identifier",

	ErrCodePathNotAFile:       "path does not point to a file",
	ErrCodePathBadFilename:    "potential file has the wrong name",
	ErrCodePathUnknownArchive: "unable to parse functional identifier from path",

	ErrCodePotentialNotFound:      "potential not found",
	ErrCodePotentialDuplicate:     "identical potential already present",
	ErrCodePotentialConflict:      "potential identifiers match but contents differ",
	ErrCodeCatalogEmptyFilter:     "at least one query tag is required",
	ErrCodeCatalogAssembleFailed:  "failed to assemble potential file",
	ErrCodeCatalogMigrationFailed: "schema migration failed",
	ErrCodeCatalogWatchFailed:     "library watch failed",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
