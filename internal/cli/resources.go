package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/data2crm/data2crm-cli/internal/api"
	"github.com/data2crm/data2crm-cli/internal/derrors"
)

const (
	// DefaultLimit is the page size for list commands
	DefaultLimit = 50
	// DefaultOffset is the starting offset for list commands
	DefaultOffset = 0
)

// ListParams holds parameters for the paginated list commands
type ListParams struct {
	Limit  int
	Offset int
	JSON   bool
}

// GetParams holds parameters for commands addressing one remote record
type GetParams struct {
	ID   string
	JSON bool
}

// DescriptorsParams holds parameters for DescriptorsList
type DescriptorsParams struct {
	Type string
	JSON bool
}

// SyncStartParams holds parameters for SyncStart
type SyncStartParams struct {
	Source string
	Target string
	JSON   bool
}

// operation is one remote call with the messages shown around it
type operation struct {
	progress string
	success  string
	failure  string
	call     func(ctx context.Context, src api.CredentialSource, opts ...api.Option) (json.RawMessage, error)
}

// run performs op, reports the outcome on stderr and renders the payload
// on stdout
func (e *Env) run(ctx context.Context, op operation, asJSON bool) error {
	e.println(e.Err, Progress(op.progress))

	payload, err := op.call(ctx, e.Store, e.apiOptions()...)
	if err != nil {
		e.Log.Debug().Err(err).Msg(op.failure)
		e.println(e.Err, Failure(op.failure))
		return err
	}

	e.println(e.Err, Success(op.success))
	return Render(e.Out, payload, asJSON)
}

func get(path string, params map[string]any) func(context.Context, api.CredentialSource, ...api.Option) (json.RawMessage, error) {
	return func(ctx context.Context, src api.CredentialSource, opts ...api.Option) (json.RawMessage, error) {
		return api.Get(ctx, src, path, params, opts...)
	}
}

func post(path string, body any) func(context.Context, api.CredentialSource, ...api.Option) (json.RawMessage, error) {
	return func(ctx context.Context, src api.CredentialSource, opts ...api.Option) (json.RawMessage, error) {
		return api.Post(ctx, src, path, body, opts...)
	}
}

// DescriptorsList fetches the CRM descriptors, optionally filtered by type
func DescriptorsList(ctx context.Context, env *Env, params DescriptorsParams) error {
	query := map[string]any{}
	if params.Type != "" {
		query["type"] = params.Type
	}

	return env.run(ctx, operation{
		progress: "Fetching CRM descriptors...",
		success:  "Descriptors retrieved",
		failure:  "Failed to fetch descriptors",
		call:     get("/descriptors", query),
	}, params.JSON)
}

// AccountsList fetches one page of accounts
func AccountsList(ctx context.Context, env *Env, params ListParams) error {
	query, err := pageQuery(params)
	if err != nil {
		return err
	}

	return env.run(ctx, operation{
		progress: "Fetching accounts...",
		success:  "Accounts retrieved",
		failure:  "Failed to fetch accounts",
		call:     get("/accounts", query),
	}, params.JSON)
}

// AccountsGet fetches a single account
func AccountsGet(ctx context.Context, env *Env, params GetParams) error {
	if params.ID == "" {
		return derrors.MissingArgument("id")
	}

	return env.run(ctx, operation{
		progress: fmt.Sprintf("Fetching account %s...", params.ID),
		success:  "Account retrieved",
		failure:  "Failed to fetch account",
		call:     get("/accounts/"+url.PathEscape(params.ID), nil),
	}, params.JSON)
}

// ContactsList fetches one page of contacts
func ContactsList(ctx context.Context, env *Env, params ListParams) error {
	query, err := pageQuery(params)
	if err != nil {
		return err
	}

	return env.run(ctx, operation{
		progress: "Fetching contacts...",
		success:  "Contacts retrieved",
		failure:  "Failed to fetch contacts",
		call:     get("/contacts", query),
	}, params.JSON)
}

// ContactsGet fetches a single contact
func ContactsGet(ctx context.Context, env *Env, params GetParams) error {
	if params.ID == "" {
		return derrors.MissingArgument("id")
	}

	return env.run(ctx, operation{
		progress: fmt.Sprintf("Fetching contact %s...", params.ID),
		success:  "Contact retrieved",
		failure:  "Failed to fetch contact",
		call:     get("/contacts/"+url.PathEscape(params.ID), nil),
	}, params.JSON)
}

// SyncStart starts a remote sync job between two CRM systems
func SyncStart(ctx context.Context, env *Env, params SyncStartParams) error {
	body := struct {
		Source string `json:"source,omitempty"`
		Target string `json:"target,omitempty"`
	}{params.Source, params.Target}

	return env.run(ctx, operation{
		progress: "Starting sync job...",
		success:  "Sync job started",
		failure:  "Failed to start sync",
		call:     post("/sync/start", body),
	}, params.JSON)
}

// SyncStatus fetches the status of a sync job
func SyncStatus(ctx context.Context, env *Env, params GetParams) error {
	if params.ID == "" {
		return derrors.MissingArgument("jobId")
	}

	return env.run(ctx, operation{
		progress: fmt.Sprintf("Fetching sync status for %s...", params.ID),
		success:  "Sync status retrieved",
		failure:  "Failed to fetch sync status",
		call:     get("/sync/status/"+url.PathEscape(params.ID), nil),
	}, params.JSON)
}

// pageQuery turns --limit/--offset into integer query parameters
func pageQuery(params ListParams) (map[string]any, error) {
	for _, c := range []struct {
		name  string
		value int
	}{{"limit", params.Limit}, {"offset", params.Offset}} {
		if c.value < 0 {
			return nil, derrors.NewValidationError(c.name, fmt.Sprintf("--%s must not be negative, got %d", c.name, c.value), nil)
		}
	}
	return map[string]any{"limit": params.Limit, "offset": params.Offset}, nil
}
