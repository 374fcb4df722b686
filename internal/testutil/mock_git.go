package testutil

import (
	"context"
	"fmt"
	"strings"
)

// MockGitExecutor is a mock implementation of verstat.GitExecutor for testing.
// Responses maps a space-joined argv (e.g. "rev-parse HEAD") to canned
// output; Errors marks argvs that fail. RunFunc overrides everything.
type MockGitExecutor struct {
	RunFunc   func(ctx context.Context, args ...string) ([]byte, error)
	Responses map[string]string
	Errors    map[string]error

	// Calls records every argv in invocation order.
	Calls []string
}

func (m *MockGitExecutor) Run(ctx context.Context, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	m.Calls = append(m.Calls, key)

	if m.RunFunc != nil {
		return m.RunFunc(ctx, args...)
	}
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if out, ok := m.Responses[key]; ok {
		return []byte(out), nil
	}
	return nil, fmt.Errorf("unexpected git invocation: git %s", key)
}

// CallCount returns how many times the given argv was run.
func (m *MockGitExecutor) CallCount(key string) int {
	count := 0
	for _, call := range m.Calls {
		if call == key {
			count++
		}
	}
	return count
}
