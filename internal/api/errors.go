package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// errorBody covers the error shapes the API and its gateways return
type errorBody struct {
	Message          string          `json:"message"`
	Error            json.RawMessage `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Errors           []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// errorMessage prefers the remote-provided message and falls back to the
// status text
func errorMessage(status int, data []byte) string {
	if msg := remoteMessage(data); msg != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("Request failed with status code %d (%s)", status, text)
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func remoteMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		// plain-text error pages are short enough to show as is
		text := strings.TrimSpace(string(data))
		if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
			return text
		}
		return ""
	}

	if body.Message != "" {
		return body.Message
	}

	if len(body.Error) > 0 {
		var s string
		if json.Unmarshal(body.Error, &s) == nil && s != "" {
			if body.ErrorDescription != "" {
				return s + ": " + body.ErrorDescription
			}
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}

	if body.ErrorDescription != "" {
		return body.ErrorDescription
	}
	if len(body.Errors) > 0 && body.Errors[0].Message != "" {
		return body.Errors[0].Message
	}
	return ""
}
