package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// DoRequest runs one in-process request against the booted shell.
func DoRequest(t *testing.T, result *HarnessResult, req *http.Request) *http.Response {
	t.Helper()
	require.NotNil(t, result.App, "application must have booted")

	resp, err := result.App.Shell().App().Test(req)
	require.NoError(t, err)
	return resp
}

// GetBody runs an in-process GET and returns the status code and body.
func GetBody(t *testing.T, result *HarnessResult, path string) (int, string) {
	t.Helper()

	resp := DoRequest(t, result, httptest.NewRequest("GET", path, nil))
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}
