package ui

import (
	"fmt"
	"io"

	"github.com/eiannone/keyboard"
)

// Confirm prints prompt to w and waits for a single key. Only y or Y
// confirms; any other key, Esc or Ctrl+C declines.
func Confirm(w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)

	char, key, err := keyboard.GetSingleKey()
	if err != nil {
		fmt.Fprintln(w)
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	ok := isYes(char, key)
	if ok {
		fmt.Fprintln(w, "yes")
	} else {
		fmt.Fprintln(w, "no")
	}
	return ok, nil
}

func isYes(char rune, key keyboard.Key) bool {
	if key == keyboard.KeyEsc || key == keyboard.KeyCtrlC {
		return false
	}
	return char == 'y' || char == 'Y'
}
