// Package tui holds the interactive pieces of the CLI: huh forms for
// editing the schedule, spinners around slow remote calls, and styled
// status output.
package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("aborted by user")

// Accessible reports whether forms should run in accessible mode
// (ACCESSIBLE set in the environment).
func Accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Spin runs action behind a spinner on stderr and returns its error.
// Cancelling the spinner returns ErrAborted.
func Spin(title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(Accessible()).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return ErrAborted
		}
		return err
	}
	return nil
}
