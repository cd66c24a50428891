package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/data2crm/data2crm-cli/internal/derrors"
)

//go:embed schema.json
var schemaJSON string

// validate checks decoded file contents against the embedded schema
func validate(path string, data map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return derrors.NewConfigurationError("", "schema validation error", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	field := ""
	for _, e := range result.Errors() {
		if field == "" {
			field = e.Field()
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return derrors.NewConfigurationError(field, fmt.Sprintf("invalid config %s: %s", path, strings.Join(msgs, "; ")), nil)
}
