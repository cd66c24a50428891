package cli

import (
	"encoding/json"
	"fmt"

	"github.com/data2crm/data2crm-cli/internal/derrors"
)

// ConfigSet stores value under key. An empty value counts as a missing
// argument.
func ConfigSet(env *Env, key, value string) error {
	if key == "" {
		return derrors.MissingArgument("key")
	}
	if value == "" {
		return derrors.MissingArgument("value")
	}

	if err := env.Store.Set(key, value); err != nil {
		return err
	}
	env.Log.Info().Str("key", key).Str("path", env.Store.Path()).Msg("Config value stored")
	env.println(env.Out, Success(fmt.Sprintf("Set %s = %s", key, value)))
	return nil
}

// ConfigGet prints the effective value for key, or "(not set)". After
// config clear, apiKey and baseUrl show their environment or default value.
func ConfigGet(env *Env, key string) error {
	if key == "" {
		return derrors.MissingArgument("key")
	}

	value, ok := env.Store.Resolve(key)
	if !ok {
		env.println(env.Out, notSet())
		return nil
	}
	env.println(env.Out, value)
	return nil
}

// ConfigList prints every stored key as indented JSON
func ConfigList(env *Env) error {
	data, err := json.MarshalIndent(env.Store.List(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	env.println(env.Out, string(data))
	return nil
}

// ConfigDelete removes a single stored key
func ConfigDelete(env *Env, key string) error {
	if key == "" {
		return derrors.MissingArgument("key")
	}

	if err := env.Store.Delete(key); err != nil {
		return err
	}
	env.println(env.Out, Success(fmt.Sprintf("Deleted %s", key)))
	return nil
}

// ConfigClear removes every stored key
func ConfigClear(env *Env) error {
	if err := env.Store.Clear(); err != nil {
		return err
	}
	env.Log.Info().Str("path", env.Store.Path()).Msg("Config cleared")
	env.println(env.Out, Success("Configuration cleared"))
	return nil
}
