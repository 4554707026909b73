package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	respondWithJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Errorf(`decoded["status"] = %q, want %q`, decoded["status"], "ok")
	}
}

func TestRespondWithJSONEncodeFailureLogs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rr := httptest.NewRecorder()
	// +Inf has no JSON encoding, so Encode must fail.
	respondWithJSON(rr, http.StatusOK, math.Inf(1))

	if !strings.Contains(buf.String(), "Failed to encode JSON response") {
		t.Errorf("encode failure was not logged, log output: %q", buf.String())
	}
}
