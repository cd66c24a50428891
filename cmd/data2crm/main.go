// Package main is the entry point for the data2crm CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	crmcli "github.com/data2crm/data2crm-cli/internal/cli"
	"github.com/data2crm/data2crm-cli/internal/config"
	"github.com/data2crm/data2crm-cli/internal/derrors"
	"github.com/data2crm/data2crm-cli/internal/trace"
	"github.com/data2crm/data2crm-cli/pkg/version"
)

const examples = `Examples:
  $ data2crm config set apiKey <your-api-key>
  $ data2crm descriptors list --type salesforce
  $ data2crm accounts list --limit 50
  $ data2crm contacts list --limit 50
  $ data2crm sync start --source hubspot --target salesforce

API Documentation:
  ` + config.DocsURL + `

Get API Key:
  ` + config.SignupURL

func main() {
	stopTrace := trace.Init()

	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	code := run(context.Background(), os.Args, os.Stdout, os.Stderr, nil)
	stopTrace()
	os.Exit(code)
}

// loadDotEnv loads variables from path without overriding the environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// run executes one invocation and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer, hc *http.Client) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Unhandled error: %v\n", r)
			code = 1
		}
	}()

	if err := newApp(stdout, stderr, hc).Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, crmcli.ErrorLine(err))
		return 1
	}
	return 0
}

// newApp builds the command tree. hc replaces the default HTTP client when
// non-nil.
func newApp(stdout, stderr io.Writer, hc *http.Client) *cli.Command {
	// env is built lazily so that flag values are known
	env := func(cmd *cli.Command) (*crmcli.Env, error) {
		return crmcli.NewEnv(crmcli.EnvParams{
			ConfigPath: cmd.String("config"),
			LogLevel:   cmd.String("log-level"),
			Out:        stdout,
			Err:        stderr,
			HTTPClient: hc,
		})
	}

	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "json",
			Usage: "Output as JSON",
		}
	}

	pageFlags := func(noun string) []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: crmcli.DefaultLimit,
				Usage: fmt.Sprintf("Number of %s to retrieve", noun),
			},
			&cli.IntFlag{
				Name:  "offset",
				Value: crmcli.DefaultOffset,
				Usage: "Offset for pagination",
			},
			jsonFlag(),
		}
	}

	return &cli.Command{
		Name:        "data2crm",
		Usage:       "Data2CRM API CLI - Universal CRM integration platform",
		Version:     version.String(),
		Description: examples,
		Writer:      stdout,
		ErrWriter:   stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("DATA2CRM_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the config file (.json, .yaml or .toml)",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Manage configuration",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Set a configuration value",
						ArgsUsage: "<key> <value>",
						Action: func(_ context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "key", "value"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ConfigSet(e, cmd.Args().Get(0), cmd.Args().Get(1))
						},
					},
					{
						Name:      "get",
						Usage:     "Get a configuration value",
						ArgsUsage: "<key>",
						Action: func(_ context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "key"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ConfigGet(e, cmd.Args().Get(0))
						},
					},
					{
						Name:  "list",
						Usage: "List all configuration",
						Action: func(_ context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ConfigList(e)
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a configuration value",
						ArgsUsage: "<key>",
						Action: func(_ context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "key"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ConfigDelete(e, cmd.Args().Get(0))
						},
					},
					{
						Name:  "clear",
						Usage: "Clear all configuration",
						Action: func(_ context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ConfigClear(e)
						},
					},
				},
			},
			{
				Name:  "descriptors",
				Usage: "Manage CRM descriptors",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List available CRM descriptors",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "type",
								Usage: "Filter by CRM type (salesforce, hubspot, etc.)",
							},
							jsonFlag(),
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.DescriptorsList(ctx, e, crmcli.DescriptorsParams{
								Type: cmd.String("type"),
								JSON: cmd.Bool("json"),
							})
						},
					},
				},
			},
			{
				Name:  "accounts",
				Usage: "Manage CRM accounts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List accounts",
						Flags: pageFlags("accounts"),
						Action: func(ctx context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.AccountsList(ctx, e, listParams(cmd))
						},
					},
					{
						Name:      "get",
						Usage:     "Get account by ID",
						ArgsUsage: "<id>",
						Flags:     []cli.Flag{jsonFlag()},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "id"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.AccountsGet(ctx, e, getParams(cmd))
						},
					},
				},
			},
			{
				Name:  "contacts",
				Usage: "Manage CRM contacts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List contacts",
						Flags: pageFlags("contacts"),
						Action: func(ctx context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ContactsList(ctx, e, listParams(cmd))
						},
					},
					{
						Name:      "get",
						Usage:     "Get contact by ID",
						ArgsUsage: "<id>",
						Flags:     []cli.Flag{jsonFlag()},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "id"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.ContactsGet(ctx, e, getParams(cmd))
						},
					},
				},
			},
			{
				Name:  "sync",
				Usage: "Manage CRM synchronization",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "Start a sync job",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "source",
								Usage: "Source CRM system",
							},
							&cli.StringFlag{
								Name:  "target",
								Usage: "Target CRM system",
							},
							jsonFlag(),
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.SyncStart(ctx, e, crmcli.SyncStartParams{
								Source: cmd.String("source"),
								Target: cmd.String("target"),
								JSON:   cmd.Bool("json"),
							})
						},
					},
					{
						Name:      "status",
						Usage:     "Get sync job status",
						ArgsUsage: "<jobId>",
						Flags:     []cli.Flag{jsonFlag()},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							if err := requireArgs(cmd, "jobId"); err != nil {
								return err
							}
							e, err := env(cmd)
							if err != nil {
								return err
							}
							return crmcli.SyncStatus(ctx, e, getParams(cmd))
						},
					},
				},
			},
		},
	}
}

// requireArgs checks that at least len(names) positional arguments were given.
// The error names the first missing one.
func requireArgs(cmd *cli.Command, names ...string) error {
	if n := cmd.Args().Len(); n < len(names) {
		return derrors.MissingArgument(names[n])
	}
	return nil
}

func listParams(cmd *cli.Command) crmcli.ListParams {
	return crmcli.ListParams{
		Limit:  cmd.Int("limit"),
		Offset: cmd.Int("offset"),
		JSON:   cmd.Bool("json"),
	}
}

func getParams(cmd *cli.Command) crmcli.GetParams {
	return crmcli.GetParams{
		ID:   cmd.Args().Get(0),
		JSON: cmd.Bool("json"),
	}
}
