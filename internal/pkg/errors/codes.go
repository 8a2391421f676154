package errors

// Setup and configuration error codes.
const (
	CodeSetupFailed   = "SETUP_FAILED"
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeUsage         = "USAGE"
)

// Reconciliation error codes.
const (
	CodeScanFailed         = "SCAN_FAILED"
	CodeStoreReadFailed    = "STORE_READ_FAILED"
	CodeProfileWriteFailed = "PROFILE_WRITE_FAILED"
	CodeIndexWriteFailed   = "INDEX_WRITE_FAILED"
	CodeUsernameExhausted  = "USERNAME_EXHAUSTED"
)

// Subtree removal error codes.
const (
	CodePathInvalid          = "PATH_INVALID"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeBackupFailed         = "BACKUP_FAILED"
	CodeDeleteFailed         = "DELETE_FAILED"
)

// Web config generation error codes.
const (
	CodeEnvLoadFailed = "ENV_LOAD_FAILED"
	CodeWriteFailed   = "WRITE_FAILED"
)

// Convenience constructors using predefined codes.

// Setup wraps a fatal setup failure (bad credentials, unreachable backend).
func Setup(err error, message string) *AppError {
	return Wrap(err, CodeSetupFailed, message, ExitFailure)
}

// ConfigInvalid reports an unusable configuration value.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message, ExitUsage)
}

// Usage wraps a command-line parsing error.
func Usage(err error) *AppError {
	return Wrap(err, CodeUsage, "invalid usage", ExitUsage)
}

// ScanFailed wraps a directory pagination failure.
func ScanFailed(err error, pageToken string) *AppError {
	return Wrap(err, CodeScanFailed, "identity directory scan failed", ExitFailure).
		WithParams(map[string]interface{}{"page_token": pageToken})
}

// StoreReadFailed wraps a point read failure against the profile store.
func StoreReadFailed(err error, path string) *AppError {
	return Wrap(err, CodeStoreReadFailed, "profile store read failed", ExitFailure).
		WithParams(map[string]interface{}{"path": path})
}

// ProfileWriteFailed wraps a failed profile write for one identity.
func ProfileWriteFailed(err error, uid string) *AppError {
	return Wrap(err, CodeProfileWriteFailed, "write profile", ExitFailure).
		WithParams(map[string]interface{}{"uid": uid})
}

// IndexWriteFailed wraps a failed name index write for one identity.
func IndexWriteFailed(err error, uid, username string) *AppError {
	return Wrap(err, CodeIndexWriteFailed, "write username index", ExitFailure).
		WithParams(map[string]interface{}{"uid": uid, "username": username})
}

// UsernameExhausted reports that no free username was found for base.
func UsernameExhausted(base string, attempts int) *AppError {
	return Wrap(ErrUsernameExhausted, CodeUsernameExhausted, "resolve unique username", ExitFailure).
		WithParams(map[string]interface{}{"base": base, "attempts": attempts})
}

// PathInvalid reports a path that may not be removed.
func PathInvalid(path, reason string) *AppError {
	return New(CodePathInvalid, reason, ExitUsage).
		WithParams(map[string]interface{}{"path": path})
}

// ConfirmationRequired refuses a destructive operation that was not confirmed.
func ConfirmationRequired(path string) *AppError {
	return Wrap(ErrConfirmationRequired, CodeConfirmationRequired,
		"not deleting: re-run with --confirm (or set FORCE=1)", ExitUsage).
		WithParams(map[string]interface{}{"path": path})
}

// BackupFailed wraps a failure to save a subtree before removing it.
func BackupFailed(err error, path string) *AppError {
	return Wrap(err, CodeBackupFailed, "back up subtree", ExitFailure).
		WithParams(map[string]interface{}{"path": path})
}

// DeleteFailed wraps a failed subtree removal.
func DeleteFailed(err error, path string) *AppError {
	return Wrap(err, CodeDeleteFailed, "remove subtree", ExitFailure).
		WithParams(map[string]interface{}{"path": path})
}

// EnvLoadFailed wraps an unreadable env file.
func EnvLoadFailed(err error, path string) *AppError {
	return Wrap(err, CodeEnvLoadFailed, "load env file", ExitFailure).
		WithParams(map[string]interface{}{"path": path})
}

// WriteFailed wraps a failure to write an output file.
func WriteFailed(err error, path string) *AppError {
	return Wrap(err, CodeWriteFailed, "write output file", ExitFailure).
		WithParams(map[string]interface{}{"file": path})
}
