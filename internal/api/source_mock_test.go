package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/data2crm/data2crm-cli/internal/derrors"
)

// mockSource is a mock implementation of CredentialSource
type mockSource struct {
	mock.Mock
}

// APIKey implements CredentialSource
func (m *mockSource) APIKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// BaseURL implements CredentialSource
func (m *mockSource) BaseURL() string {
	return m.Called().String(0)
}

func TestNew_ResolvesCredentialsOncePerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	src := &mockSource{}
	src.On("APIKey").Return("mock-key", nil).Times(2)
	src.On("BaseURL").Return(srv.URL).Times(2)

	ctx := context.Background()
	_, err := Get(ctx, src, "/descriptors", nil)
	require.NoError(t, err)
	_, err = Delete(ctx, src, "/accounts/1")
	require.NoError(t, err)

	src.AssertExpectations(t)
	src.AssertNumberOfCalls(t, "APIKey", 2)
}

func TestNew_MissingKeySkipsBaseURL(t *testing.T) {
	missing := derrors.NewConfigurationError("apiKey", "API key not configured", nil)

	src := &mockSource{}
	src.On("APIKey").Return("", missing).Once()

	_, err := New(src)
	assert.Same(t, missing, err)

	src.AssertExpectations(t)
	src.AssertNotCalled(t, "BaseURL")
}
