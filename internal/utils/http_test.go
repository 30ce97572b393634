// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"key": "value"}

	n, err := WriteJSON(w, data, http.StatusOK)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}

	expected, _ := json.Marshal(data)
	if w.Body.String() != string(expected) {
		t.Errorf("expected body %s, got %s", expected, w.Body.String())
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	// channels cannot be marshaled to JSON
	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	if err == nil {
		t.Fatal("expected error for non-serializable data, got nil")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestReadJSON(t *testing.T) {
	var dst struct {
		AfterID *string
	}

	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"AfterID":"x"}`))
	if err := ReadJSON(r, &dst); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if dst.AfterID == nil || *dst.AfterID != "x" {
		t.Errorf("unexpected decode result: %+v", dst)
	}

	r = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"Unknown":1}`))
	if err := ReadJSON(r, &dst); err == nil {
		t.Error("expected error for unknown field")
	}
}
