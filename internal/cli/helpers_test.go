package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/data2crm/data2crm-cli/internal/config"
)

// remoteCall is one request seen by the fake API
type remoteCall struct {
	Method string
	Path   string
	Query  string
	APIKey string
	Body   string
}

// fakeAPI is an httptest server answering every request with a fixed reply
type fakeAPI struct {
	*httptest.Server
	mu     sync.Mutex
	calls  []remoteCall
	status int
	body   string
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, remoteCall{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			APIKey: r.Header.Get("X-API-KEY"),
			Body:   string(b),
		})
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) Calls() []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remoteCall(nil), f.calls...)
}

// newTestEnv returns an Env writing to buffers, with a config file in a
// temp dir. The process environment is cleared of DATA2CRM_* fallbacks.
func newTestEnv(t *testing.T) (*Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvBaseURL, "")

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	env, err := NewEnv(EnvParams{
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
		LogLevel:   "error",
		Out:        out,
		Err:        errOut,
	})
	require.NoError(t, err)
	return env, out, errOut
}

// withAPI points env at api with a stored key
func withAPI(t *testing.T, env *Env, api *fakeAPI) {
	t.Helper()
	require.NoError(t, env.Store.Set(config.KeyAPIKey, "test-key"))
	require.NoError(t, env.Store.Set(config.KeyBaseURL, api.URL))
}
