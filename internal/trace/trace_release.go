//go:build !dev

package trace

import "context"

// EnvPath names the file the trace is written to in dev builds
const EnvPath = "DATA2CRM_TRACE"

// Init does nothing outside dev builds
func Init() func() { return func() {} }

// Region does nothing outside dev builds
func Region(context.Context, string) func() { return func() {} }

// Log does nothing outside dev builds
func Log(context.Context, string, string) {}
