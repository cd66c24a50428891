//go:build dev

// Package trace records API calls with runtime/trace in dev builds.
//
//	go build -tags dev ./cmd/data2crm
//	DATA2CRM_TRACE=trace.out data2crm accounts list
//	go tool trace trace.out
package trace

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
)

// EnvPath names the file the trace is written to
const EnvPath = "DATA2CRM_TRACE"

type session struct {
	mu   sync.Mutex
	file *os.File
}

var current *session

// Init starts a trace session when DATA2CRM_TRACE is set. The returned
// function flushes and closes the trace file.
func Init() func() {
	path := os.Getenv(EnvPath)
	if path == "" {
		return func() {}
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "data2crm: trace disabled: %v\n", err)
		return func() {}
	}
	if err := trace.Start(f); err != nil {
		fmt.Fprintf(os.Stderr, "data2crm: trace disabled: %v\n", err)
		_ = f.Close()
		return func() {}
	}

	s := &session{file: f}
	current = s
	return s.stop
}

func (s *session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return
	}
	trace.Stop()
	_ = s.file.Close()
	s.file = nil
	current = nil
}

// Region marks one API call. The returned function ends it.
func Region(ctx context.Context, name string) func() {
	if current == nil {
		return func() {}
	}
	return trace.StartRegion(ctx, name).End
}

// Log attaches a message (e.g. the response status) to the running region
func Log(ctx context.Context, category, message string) {
	if current != nil {
		trace.Log(ctx, category, message)
	}
}
