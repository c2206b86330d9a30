package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/gamifylife/internal/engine"
	"github.com/julianstephens/gamifylife/internal/keyring"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/storage/postgres"
)

// exit is swapped out in tests.
var exit = os.Exit

var hints = []struct {
	target error
	hint   string
}{
	{engine.ErrInsufficientFunds, "earn more gems by completing habits"},
	{engine.ErrAlreadyDone, "try again tomorrow"},
	{engine.ErrNotFound, "run 'gamifylife habit list' to see valid ids"},
	{engine.ErrNotLoaded, "run 'gamifylife init' first"},
	{keyring.ErrKeyringUnavailable, "pass the connection string with --store instead"},
	{postgres.ErrEmbeddedCredentials, "use 'gamifylife config set-connection' to store it in the keyring"},
}

// Hint returns a short suggestion for known errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	exit(1)
}
