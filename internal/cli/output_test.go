package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// yamlToJSONValue decodes YAML output and re-reads it as JSON, so it can be
// compared with a json.Unmarshal result
func yamlToJSONValue(t *testing.T, data []byte) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, yaml.Unmarshal(data, &v))
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, json.RawMessage(`{"b":[1,2],"a":{"c":"d"}}`), true))

	assert.Equal(t, "{\n  \"b\": [\n    1,\n    2\n  ],\n  \"a\": {\n    \"c\": \"d\"\n  }\n}\n", buf.String())
}

func TestRender_JSONKeepsPrecision(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, json.RawMessage(`{"id":9007199254740993}`), true))

	assert.Contains(t, buf.String(), "9007199254740993")
}

func TestRender_Default(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, json.RawMessage(`{"name":"Acme","count":3,"ratio":0.25,"id":9007199254740993}`), false))

	out := buf.String()
	assert.Contains(t, out, "name: Acme")
	assert.Contains(t, out, "count: 3")
	assert.Contains(t, out, "ratio: 0.25")
	assert.Contains(t, out, "id: 9007199254740993")
}

func TestRender_DefaultBigIntegerStaysNumeric(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, json.RawMessage(`{"id":123456789012345678901234,"ids":[-98765432109876543210]}`), false))

	assert.Equal(t, "id: 123456789012345678901234\nids:\n  - -98765432109876543210\n", buf.String())

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	root := doc.Content[0]
	id := root.Content[1]
	assert.Equal(t, "123456789012345678901234", id.Value)
	assert.Equal(t, yaml.Style(0), id.Style)
	assert.NotEqual(t, "!!str", id.ShortTag())
}

func TestRender_RoundTrip(t *testing.T) {
	payloads := []string{
		`{"data":[{"id":1,"nested":{"deep":[true,false,null]}}],"meta":{"next":"abc"}}`,
		`[1,2,3]`,
		`"just a string"`,
		`42`,
		`null`,
		`{}`,
		`[]`,
	}

	for _, p := range payloads {
		t.Run(p, func(t *testing.T) {
			var want interface{}
			require.NoError(t, json.Unmarshal([]byte(p), &want))

			var jsonOut bytes.Buffer
			require.NoError(t, Render(&jsonOut, json.RawMessage(p), true))
			var got interface{}
			require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &got))
			assert.Equal(t, want, got)

			var yamlOut bytes.Buffer
			require.NoError(t, Render(&yamlOut, json.RawMessage(p), false))
			assert.Equal(t, want, yamlToJSONValue(t, yamlOut.Bytes()))
		})
	}
}

func TestRender_EmptyPayloadIsNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, true))
	assert.Equal(t, "null\n", buf.String())
}

func TestRender_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, json.RawMessage(`{broken`), true))
	assert.Error(t, Render(&buf, json.RawMessage(`{broken`), false))
}
