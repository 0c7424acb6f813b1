package monitoring

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHealthServer(t *testing.T) {
	monitor := NewMonitor()
	server := NewHealthServer(monitor, "")

	get := func(t *testing.T, path string) (int, string) {
		t.Helper()
		resp, err := server.app.Test(httptest.NewRequest("GET", path, nil), -1)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	t.Run("NoRunsYet", func(t *testing.T) {
		status, body := get(t, "/health")
		if status != 200 {
			t.Errorf("status = %d, want 200", status)
		}
		if body != "OK - No runs yet" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("AfterSuccess", func(t *testing.T) {
		monitor.RecordSuccess("submitted 2 reels, 2 analyzed", time.Second)
		status, body := get(t, "/status")
		if status != 200 {
			t.Errorf("status = %d, want 200", status)
		}
		if !strings.Contains(body, "submitted 2 reels") {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("AfterCriticalFailure", func(t *testing.T) {
		monitor.RecordCriticalFailure(errors.New("inbox unreadable"), time.Second)
		status, body := get(t, "/health")
		if status != 503 {
			t.Errorf("status = %d, want 503", status)
		}
		if !strings.HasPrefix(body, "Service unhealthy") {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("PartialFailureKeepsHealth", func(t *testing.T) {
		monitor.RecordSuccess("ok", time.Second)
		monitor.RecordPartialFailure(errors.New("one reel failed"), time.Second)
		if !monitor.IsHealthy() {
			t.Error("partial failure should not change health")
		}
	})
}

func TestHealthServerDefaultPort(t *testing.T) {
	if s := NewHealthServer(NewMonitor(), ""); s.port != "8080" {
		t.Errorf("port = %q, want 8080", s.port)
	}
}
