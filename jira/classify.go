package jira

import (
	"bytes"
	"encoding/json"
	"net/http"

	jhttp "github.com/randalmurphal/jirakit/http"
)

const serviceName = "jira"

// ProcessResponse classifies an answer and decodes a successful body into out.
//
// The order is fixed: 401, 405, 404, other 4xx, then success. Only 4xx codes
// are failures; any other status decodes as success. An empty body leaves out
// untouched and a nil out discards the body.
func ProcessResponse(status int, body []byte, out any) error {
	return classify(status, body, "", "", out)
}

func processResponse(resp *jhttp.Response, endpoint string, out any) error {
	return classify(resp.StatusCode, resp.Body, endpoint, resp.RequestID(), out)
}

func classify(status int, body []byte, endpoint, requestID string, out any) error {
	switch {
	case status == http.StatusUnauthorized:
		return jhttp.ErrUnauthorized
	case status == http.StatusMethodNotAllowed:
		return jhttp.ErrMethodNotAllowed
	case status == http.StatusNotFound:
		return jhttp.ErrNotFound
	case status >= 400 && status < 500:
		apiErr := &APIError{
			StatusCode: status,
			Endpoint:   endpoint,
			RequestID:  requestID,
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &apiErr.Body); err != nil {
				return &jhttp.SerializationError{Service: serviceName, Endpoint: endpoint, Err: err}
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &jhttp.SerializationError{Service: serviceName, Endpoint: endpoint, Err: err}
	}
	return nil
}
