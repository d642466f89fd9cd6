package cmd

import (
	"errors"
	"fmt"
)

type target int

const (
	targetKey target = iota
	targetComment
	targetHeader
)

// selector names what a get, set or del command acts on.
type selector struct {
	target target
	key    string
}

type listMode int

const (
	listValues listMode = iota
	listKeys
)

// parseListArgs reads `[keys|values] [FILE]`.
func parseListArgs(args []string) (mode listMode, file string, err error) {
	mode = listValues
	if len(args) > 0 {
		switch args[0] {
		case "keys":
			mode, args = listKeys, args[1:]
		case "values":
			args = args[1:]
		}
	}
	file, err = optionalFile(args)
	return mode, file, err
}

// parseSelectorArgs reads `[key|comment|header] [KEY] [FILE]`. A bare first
// word that is not a target is the key.
func parseSelectorArgs(verb string, args []string) (selector, string, error) {
	if len(args) == 0 {
		return selector{}, "", fmt.Errorf("missing target [key|comment|header] (example: envq %s key FOO)", verb)
	}

	var sel selector
	switch args[0] {
	case "header":
		sel.target = targetHeader
		args = args[1:]
	case "comment", "key":
		if args[0] == "comment" {
			sel.target = targetComment
		}
		if len(args) < 2 {
			return selector{}, "", fmt.Errorf("missing key name (example: envq %s %s FOO)", verb, args[0])
		}
		sel.key, args = args[1], args[2:]
	default:
		sel.key, args = args[0], args[1:]
	}

	file, err := optionalFile(args)
	return sel, file, err
}

// parseSetArgs reads `[key|comment|header] [KEY] VALUE [FILE]`.
func parseSetArgs(args []string) (selector, string, string, error) {
	if len(args) == 0 {
		return selector{}, "", "", errors.New("missing target [key|comment|header] (example: envq set key FOO VALUE)")
	}

	var sel selector
	switch args[0] {
	case "header":
		if len(args) < 2 {
			return selector{}, "", "", errors.New("missing header text (example: envq set header VALUE)")
		}
		sel.target = targetHeader
		args = args[1:]
	case "comment", "key":
		if args[0] == "comment" {
			sel.target = targetComment
		}
		if len(args) < 3 {
			return selector{}, "", "", fmt.Errorf("missing key and value (example: envq set %s FOO VALUE)", args[0])
		}
		sel.key, args = args[1], args[2:]
	default:
		if len(args) < 2 {
			return selector{}, "", "", errors.New("missing value (example: envq set FOO VALUE)")
		}
		sel.key, args = args[0], args[1:]
	}

	value := args[0]
	file, err := optionalFile(args[1:])
	return sel, value, file, err
}

func optionalFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected argument %q", args[1])
	}
}
