package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
)

func TestRouterHealth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(&config.Config{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestLeadsValidation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(&config.Config{}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		body string
	}{
		{"invalid body", "{not json"},
		{"missing country", `{"industry":"robotics"}`},
		{"missing industry", `{"country":"Japan"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := http.Post(srv.URL+"/v1/leads", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLeadsPipelineUnavailable(t *testing.T) {
	t.Parallel()

	// No Anthropic key configured: the request is valid but no pipeline can
	// be built.
	srv := httptest.NewServer(newRouter(&config.Config{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/leads", "application/json",
		strings.NewReader(`{"industry":"robotics","country":"Japan"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
