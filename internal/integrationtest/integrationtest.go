// Package integrationtest provides server helpers used in end-to-end tests.
package integrationtest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-points/cmd/httpserver"
	"github.com/go-petr/pet-points/internal/middleware"
	"github.com/go-petr/pet-points/pkg/configpkg"
)

// SetupServer returns test server backed by an empty in-memory ledger.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	// Events are never sent to a broker from tests.
	config.KafkaBrokers = ""

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(logger, config) returned error: %v`, err)
	}

	t.Cleanup(func() {
		if err := server.Close(); err != nil {
			t.Errorf("server.Close() returned error: %v", err)
		}
	})

	return server
}

// Do sends a request with the JSON encoded body to the server and returns the recorded response.
func Do(t *testing.T, server *httpserver.Server, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("json.Encode(%v) returned error: %v", body, err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("http.NewRequest(%v, %v) returned error: %v", method, url, err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

// Decode unmarshals the recorded response body into v.
func Decode(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(recorder.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) returned error: %v", recorder.Body.String(), err)
	}
}
