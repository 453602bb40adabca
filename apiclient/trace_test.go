package apiclient_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-activity-signup/apiclient"
	"github.com/stretchr/testify/require"
)

func TestWithRequestTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	c, err := apiclient.New(srv.URL, apiclient.WithHTTPClient(srv.Client()), apiclient.WithRequestTrace(&out, false))
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "[ GET    ] /activities 200\n", out.String())

	srv.Close()
	_, err = c.List(context.Background())
	require.Error(t, err)
	require.Contains(t, out.String(), "[ GET    ] /activities error\n")
}
