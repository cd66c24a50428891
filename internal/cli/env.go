// Package cli implements the data2crm commands. Each handler performs at
// most one remote operation and returns its error to the caller, which
// prints it and exits non-zero.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/data2crm/data2crm-cli/internal/api"
	"github.com/data2crm/data2crm-cli/internal/config"
	"github.com/data2crm/data2crm-cli/internal/logger"
)

// Env carries what a command needs; it is built once per invocation
type Env struct {
	Store      *config.Store
	Out        io.Writer
	Err        io.Writer
	Log        *logger.Logger
	HTTPClient *http.Client
}

// EnvParams holds parameters for NewEnv
type EnvParams struct {
	ConfigPath string
	LogLevel   string
	Out        io.Writer
	Err        io.Writer
	HTTPClient *http.Client
}

// NewEnv opens the config store and sets up logging.
// An empty ConfigPath selects config.DefaultPath.
func NewEnv(params EnvParams) (*Env, error) {
	out, errOut := params.Out, params.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	path := params.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	log := logger.New(params.LogLevel, errOut)

	store, err := config.Open(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", store.Path()).Int("keys", len(store.Keys())).Msg("Loaded config")

	return &Env{
		Store:      store,
		Out:        out,
		Err:        errOut,
		Log:        log,
		HTTPClient: params.HTTPClient,
	}, nil
}

func (e *Env) apiOptions() []api.Option {
	return []api.Option{
		api.WithLogger(e.Log),
		api.WithHTTPClient(e.HTTPClient),
	}
}

func (e *Env) println(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
