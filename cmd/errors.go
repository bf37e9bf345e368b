package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/josephgoksu/todowing/models"
	"github.com/spf13/viper"
)

// PrintError prints an error message without exiting. With --verbose the
// technical error is printed instead of the user message.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}

// userMessage maps known errors to short messages for the terminal.
func userMessage(err error) string {
	var nf *todo.NotFoundError
	switch {
	case errors.Is(err, todo.ErrEmptyText):
		return "Task text cannot be empty."
	case errors.As(err, &nf):
		return fmt.Sprintf("No task with ID %d.", nf.ID)
	case errors.Is(err, models.ErrInvalidFilter):
		return "Filter must be one of: all, active, completed."
	default:
		return err.Error()
	}
}

// warnUnsaved downgrades a failed save to a warning: the change was applied
// but will not survive this process. Other errors pass through.
func warnUnsaved(w io.Writer, err error) error {
	var perr *todo.PersistenceError
	if !errors.As(err, &perr) {
		return err
	}
	LogError("save failed", perr.Err)
	fmt.Fprintf(w, "Warning: change applied but not saved (%v)\n", perr.Err)
	return nil
}
