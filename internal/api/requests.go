package api

import (
	"context"
	"encoding/json"
)

// The functions below build a fresh client from src for a single request,
// so credentials are resolved at call time and nothing is reused.

// Get resolves credentials and issues one GET request
func Get(ctx context.Context, src CredentialSource, path string, params map[string]any, opts ...Option) (json.RawMessage, error) {
	c, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, path, params)
}

// Post resolves credentials and issues one POST request
func Post(ctx context.Context, src CredentialSource, path string, body any, opts ...Option) (json.RawMessage, error) {
	c, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	return c.Post(ctx, path, body)
}

// Put resolves credentials and issues one PUT request
func Put(ctx context.Context, src CredentialSource, path string, body any, opts ...Option) (json.RawMessage, error) {
	c, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	return c.Put(ctx, path, body)
}

// Delete resolves credentials and issues one DELETE request
func Delete(ctx context.Context, src CredentialSource, path string, opts ...Option) (json.RawMessage, error) {
	c, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	return c.Delete(ctx, path)
}
