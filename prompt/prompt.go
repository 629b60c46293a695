// Package prompt collects user selections over enumerated lists. Parsing
// is separated from the interactive loop so the index arithmetic stays
// testable; invalid input re-prompts and never escapes this package.
package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

var multiSeparator = regexp.MustCompile(`[,\s]+`)

// ParseIndex parses a 1-based choice against a list of n options and
// returns the 0-based index.
func ParseIndex(input string, n int) (int, error) {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.New("enter a number")
	}
	if val < 1 || val > n {
		return 0, fmt.Errorf("enter a number between 1 and %d", n)
	}
	return val - 1, nil
}

// ParseIndexSet parses whitespace- or comma-delimited 1-based choices and
// returns 0-based indices in input order. An empty set is an error.
func ParseIndexSet(input string, n int) ([]int, error) {
	parts := multiSeparator.Split(strings.TrimSpace(input), -1)
	var indices []int
	for _, part := range parts {
		if part == "" {
			continue
		}
		idx, err := ParseIndex(part, n)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, errors.New("choose at least one option")
	}
	return indices, nil
}

// Menu prints an enumerated option list.
func Menu(title string, options []string) {
	fmt.Printf("\n%s\n", title)
	for i, option := range options {
		fmt.Printf("  [%d] %s\n", i+1, option)
	}
}

// SingleChoice shows the options and prompts for one of them, returning
// its 0-based index. Invalid input keeps the prompt open.
func SingleChoice(label string, options []string) (int, error) {
	Menu(label, options)
	p := promptui.Prompt{
		Label: fmt.Sprintf("%s (1-%d)", label, len(options)),
		Validate: func(input string) error {
			_, err := ParseIndex(input, len(options))
			return err
		},
	}
	result, err := p.Run()
	if err != nil {
		return 0, err
	}
	return ParseIndex(result, len(options))
}

// MultiChoice shows the options and prompts for one or more of them,
// whitespace or comma delimited, returning 0-based indices in input order.
func MultiChoice(label string, options []string) ([]int, error) {
	Menu(label, options)
	fmt.Println("  (multiple choices allowed, separated by spaces or commas)")
	p := promptui.Prompt{
		Label: fmt.Sprintf("%s (1-%d)", label, len(options)),
		Validate: func(input string) error {
			_, err := ParseIndexSet(input, len(options))
			return err
		},
	}
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	return ParseIndexSet(result, len(options))
}

// Input prompts for a free-form value. A blank answer falls back to
// defaultValue.
func Input(label, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
	}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return defaultValue, nil
	}
	return result, nil
}
