package core

// Process exit codes. Signal-based exits follow the Unix 128+signal
// convention so scripts driving batch assessments can tell an interrupted
// run from a failed one.
const (
	// ExitCodeSuccess: every requested assessment completed cleanly.
	ExitCodeSuccess = 0

	// ExitCodeError: startup failed or at least one assessment did not
	// complete.
	ExitCodeError = 1

	// ExitCodeSIGINT: terminated by Ctrl+C (128 + 2).
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM: terminated by SIGTERM (128 + 15).
	ExitCodeSIGTERM = 143
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	default:
		return "unknown"
	}
}

// IsSignalExit reports whether the exit code came from a signal.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}
