package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockRunner records every invocation and replays canned responses.
// Safe for concurrent use: the collector fans builds out across goroutines.
type MockRunner struct {
	mu           sync.Mutex
	Commands     []MockCommand
	Responses    map[string]MockResponse
	ResponseFunc func(name string, args ...string) ([]byte, error)
}

type MockCommand struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
	Mode    Mode
}

type MockResponse struct {
	Output []byte
	Error  error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockResponse),
	}
}

func (m *MockRunner) Run(
	_ context.Context,
	dir string,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, MockCommand{
		Name:    name,
		Args:    args,
		Dir:     dir,
		Timeout: timeout,
		Mode:    mode,
	})
	respFunc := m.ResponseFunc
	resp, ok := m.Responses[cmdKey(name, args...)]
	m.mu.Unlock()

	if ok {
		return resp.Output, resp.Error
	}
	if respFunc != nil {
		return respFunc(name, args...)
	}
	if mode == Stream {
		return nil, nil
	}
	return []byte{}, nil
}

func (m *MockRunner) AddResponse(key string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[key] = MockResponse{
		Output: output,
		Error:  err,
	}
}

// Calls returns a copy of the recorded invocations.
func (m *MockRunner) Calls() []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCommand, len(m.Commands))
	copy(out, m.Commands)
	return out
}

func cmdKey(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
