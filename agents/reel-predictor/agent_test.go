package reelpredictor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"reel-predictor/internal/models"
	"reel-predictor/shared/config"
	"reel-predictor/shared/scheduler"
)

type fakeSender struct {
	reports []*models.EmailReport
	err     error
}

func (f *fakeSender) SendReport(report *models.EmailReport) error {
	f.reports = append(f.reports, report)
	return f.err
}

type recordedEvents struct {
	success  []scheduler.Metrics
	partial  []error
	critical []error
}

func (r *recordedEvents) events() *scheduler.AgentEvents {
	return &scheduler.AgentEvents{
		OnSuccess:         func(m scheduler.Metrics, _ time.Duration) { r.success = append(r.success, m) },
		OnPartialFailure:  func(err error, _ time.Duration) { r.partial = append(r.partial, err) },
		OnCriticalFailure: func(err error, _ time.Duration) { r.critical = append(r.critical, err) },
	}
}

func newTestAgent(t *testing.T, handler http.HandlerFunc) (*ReelAgent, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	inbox := t.TempDir()
	cfg := &config.Config{
		Analyzer: config.AnalyzerConfig{Endpoint: srv.URL, RequestTimeoutSeconds: 10},
		Inbox: config.InboxConfig{
			Dir:        inbox,
			CaptionExt: ".txt",
			DataDir:    filepath.Join(t.TempDir(), "data"),
			TrackDays:  1,
		},
	}

	agent := NewReelAgent(cfg)
	if err := agent.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return agent, inbox
}

func TestReelAgentName(t *testing.T) {
	agent := NewReelAgent(&config.Config{})
	if name := agent.Name(); name != "Reel Predictor" {
		t.Errorf("Agent.Name() = %s, want Reel Predictor", name)
	}
}

func TestInitializeRequiresInbox(t *testing.T) {
	agent := NewReelAgent(&config.Config{})
	if err := agent.Initialize(); err == nil {
		t.Error("Initialize() should fail without inbox.dir")
	}
}

func TestReelMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  ReelMetrics
		expected string
	}{
		{"All zeros", ReelMetrics{}, "found 0 reels, analyzed 0, skipped 0"},
		{"With failures", ReelMetrics{Found: 5, Analyzed: 2, Skipped: 1, ValidationErrors: 1, RequestErrors: 1},
			"found 5 reels, analyzed 2, skipped 1, 2 failed"},
		{"Email sent", ReelMetrics{Found: 1, Analyzed: 1, EmailSent: true},
			"found 1 reels, analyzed 1, skipped 0, email sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.GetSummary(); got != tt.expected {
				t.Errorf("GetSummary() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestRunOnce(t *testing.T) {
	var calls atomic.Int32
	agent, inbox := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"viral_score": 91, "viral_chance": "High", "pro_tips": ["Loop it"]}`)
	})
	sender := &fakeSender{}
	agent.emailSender = sender

	writeFile(t, filepath.Join(inbox, "good.mp4"), mp4Header)
	writeFile(t, filepath.Join(inbox, "good.txt"), []byte("check this out"))
	writeFile(t, filepath.Join(inbox, "nocaption.mp4"), mp4Header)
	writeFile(t, filepath.Join(inbox, "fake.mp4"), []byte("plain text pretending to be video"))

	rec := &recordedEvents{}
	if err := agent.RunOnce(context.Background(), rec.events()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("analyzer calls = %d, want 1", calls.Load())
	}
	if len(rec.success) != 1 {
		t.Fatalf("success events = %d, want 1", len(rec.success))
	}
	metrics := rec.success[0].(ReelMetrics)
	if metrics.Found != 3 || metrics.Analyzed != 1 || metrics.ValidationErrors != 2 || !metrics.EmailSent {
		t.Errorf("metrics = %+v", metrics)
	}
	if len(rec.partial) != 1 {
		t.Errorf("partial failures = %d, want 1", len(rec.partial))
	}

	if len(sender.reports) != 1 || len(sender.reports[0].Reels) != 1 {
		t.Fatalf("email reports = %+v", sender.reports)
	}
	reel := sender.reports[0].Reels[0]
	if reel.Source != "good.mp4" || reel.Report.Score.Text != "91/100" || reel.Report.ProTips == nil {
		t.Errorf("reel report = %+v", reel)
	}

	t.Run("SecondRunSkipsAnalyzed", func(t *testing.T) {
		rec := &recordedEvents{}
		if err := agent.RunOnce(context.Background(), rec.events()); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("analyzer calls = %d, want still 1", calls.Load())
		}
		metrics := rec.success[0].(ReelMetrics)
		if metrics.Skipped != 1 || metrics.Analyzed != 0 {
			t.Errorf("metrics = %+v", metrics)
		}
		if len(sender.reports) != 1 {
			t.Error("no email should be sent when nothing new was analyzed")
		}
	})
}

func TestRunOnceAllRequestsFail(t *testing.T) {
	agent, inbox := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "bad video codec"}`)
	})

	writeFile(t, filepath.Join(inbox, "clip.mp4"), mp4Header)
	writeFile(t, filepath.Join(inbox, "clip.txt"), []byte("caption"))

	rec := &recordedEvents{}
	err := agent.RunOnce(context.Background(), rec.events())
	if err == nil {
		t.Fatal("RunOnce() should fail when every submission fails")
	}
	if len(rec.success) != 0 {
		t.Error("no success event expected")
	}

	t.Run("FailedReelIsNotTracked", func(t *testing.T) {
		if agent.tracker.Count() != 0 {
			t.Errorf("tracker count = %d, want 0", agent.tracker.Count())
		}
	})
}

func TestRunOnceEmailFailureIsPartial(t *testing.T) {
	agent, inbox := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	agent.emailSender = &fakeSender{err: errors.New("smtp down")}

	writeFile(t, filepath.Join(inbox, "clip.mp4"), mp4Header)
	writeFile(t, filepath.Join(inbox, "clip.txt"), []byte("caption"))

	rec := &recordedEvents{}
	if err := agent.RunOnce(context.Background(), rec.events()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(rec.partial) != 1 {
		t.Errorf("partial failures = %d, want 1", len(rec.partial))
	}
	if metrics := rec.success[0].(ReelMetrics); metrics.EmailSent {
		t.Error("EmailSent should be false when sending failed")
	}
}
