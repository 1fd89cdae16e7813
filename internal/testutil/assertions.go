package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertMessage verifies the status and the message envelope body
func AssertMessage(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var errResp ErrorResponse
	AssertJSONResponse(t, resp, &errResp)
	assert.Equal(t, expectedMessage, errResp.Message, "message mismatch")
}

// AssertValidationError verifies a 422 response naming the given field
func AssertValidationError(t *testing.T, resp *http.Response, field string) {
	t.Helper()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "unexpected status code")

	var errResp ErrorResponse
	AssertJSONResponse(t, resp, &errResp)
	assert.Equal(t, "The given data was invalid.", errResp.Message)
	assert.Contains(t, errResp.Errors, field, "expected a validation message for field %q", field)
	assert.NotEmpty(t, errResp.Errors[field], "expected at least one message for field %q", field)
}

// AssertUnauthenticated verifies the uniform 401 envelope
func AssertUnauthenticated(t *testing.T, resp *http.Response) {
	t.Helper()
	AssertMessage(t, resp, http.StatusUnauthorized, "Unauthenticated.")
}
