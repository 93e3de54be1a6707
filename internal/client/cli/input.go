package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/options"
)

// clearMarker entered in a form control empties it.
const clearMarker = "-"

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
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

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
//
// Used for long text such as topic descriptions.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && len(lines) == 0 && !errors.Is(err, io.EOF) {
				return "", err
			}
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Confirm asks a yes/no question; only "y" or "yes" count as consent.
func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := GetSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// printOptions lists a choice set numbered from 1. Disabled choices are
// marked and cannot be picked.
func printOptions(w io.Writer, s *options.Set) {
	if s.Err != nil {
		fmt.Fprintf(w, "  (options failed to load: %v)\n", s.Err)
	}
	for i, o := range s.Options {
		mark := " "
		if o.Value == s.Selected && o.Value != "" {
			mark = "*"
		}
		suffix := ""
		if o.Disabled {
			suffix = " [unavailable]"
		}
		fmt.Fprintf(w, " %s%3d) %s%s\n", mark, i+1, o.Label, suffix)
	}
}

// choiceValue maps the 1-based number the operator typed to an option
// value. A typed raw value that names an option is accepted as well.
func choiceValue(s *options.Set, raw string) (string, error) {
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(s.Options) {
		return s.Options[n-1].Value, nil
	}
	if _, ok := s.Lookup(raw); ok {
		return raw, nil
	}
	return "", fmt.Errorf("no choice %q", raw)
}
