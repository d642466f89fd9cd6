package tui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/huh"
)

var ErrNoMockAnswer = errors.New("no mocked answer left")

var (
	mockMu      sync.Mutex
	mockAnswers []string
	mocking     bool
)

// SetMock makes the prompt functions return answers in order instead of
// reading from the terminal.
func SetMock(answers ...string) {
	mockMu.Lock()
	defer mockMu.Unlock()
	mockAnswers = append([]string(nil), answers...)
	mocking = true
}

func ClearMock() {
	mockMu.Lock()
	defer mockMu.Unlock()
	mockAnswers = nil
	mocking = false
}

func nextMock() (string, bool, error) {
	mockMu.Lock()
	defer mockMu.Unlock()
	if !mocking {
		return "", false, nil
	}
	if len(mockAnswers) == 0 {
		return "", true, ErrNoMockAnswer
	}
	answer := mockAnswers[0]
	mockAnswers = mockAnswers[1:]
	return answer, true, nil
}

func PlaintextInput(title string) (string, error) {
	return input(title, huh.EchoModeNormal)
}

// HiddenInput reads a value without echoing it, for secrets.
func HiddenInput(title string) (string, error) {
	return input(title, huh.EchoModePassword)
}

func input(title string, mode huh.EchoMode) (string, error) {
	if answer, ok, err := nextMock(); ok {
		return answer, err
	}

	var result string
	err := huh.NewInput().
		Title(title).
		EchoMode(mode).
		Value(&result).
		Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return result, nil
}
