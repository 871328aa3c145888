package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads one trimmed line from reader.
// A partial last line before EOF is returned as input.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo.
func GetPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// GetRating reads a 1-5 rating. An empty line returns 0 unless required,
// in which case the prompt repeats.
func GetRating(reader *bufio.Reader, prompt string, required bool, w io.Writer) (int, error) {
	if required {
		prompt += " *"
	}
	prompt += " (1-5)"
	for {
		text, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return 0, err
		}
		if text == "" && !required {
			return 0, nil
		}
		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= 5 {
			return n, nil
		}
		fmt.Fprintln(w, "Please enter a number from 1 to 5.")
	}
}

// GetChoices reads a comma or space separated list of 1-based indexes into
// a list of n options. Out-of-range and non-numeric entries are dropped.
func GetChoices(reader *bufio.Reader, prompt string, n int, w io.Writer) ([]int, error) {
	text, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' })

	var picked []int
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil || i < 1 || i > n {
			continue
		}
		picked = append(picked, i-1)
	}
	return picked, nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	text, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(text) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
