package reelpredictor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"reel-predictor/agents/reel-predictor/predictor"
	"reel-predictor/internal/models"
	"reel-predictor/shared/config"
	"reel-predictor/shared/email"
	"reel-predictor/shared/scheduler"
	"reel-predictor/shared/storage"
)

// ReelMetrics represents the metrics collected during one inbox run
type ReelMetrics struct {
	Found            int  `json:"found"`
	Skipped          int  `json:"skipped"`
	Analyzed         int  `json:"analyzed"`
	ValidationErrors int  `json:"validation_errors"`
	RequestErrors    int  `json:"request_errors"`
	EmailSent        bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m ReelMetrics) GetSummary() string {
	summary := fmt.Sprintf("found %d reels, analyzed %d, skipped %d", m.Found, m.Analyzed, m.Skipped)
	if failed := m.ValidationErrors + m.RequestErrors; failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	if m.EmailSent {
		summary += ", email sent"
	}
	return summary
}

// reportSender is satisfied by *email.Sender
type reportSender interface {
	SendReport(report *models.EmailReport) error
}

// ReelAgent implements the scheduler.Agent interface. It submits inbox reels to the
// analyzer one at a time and emails the rendered reports.
type ReelAgent struct {
	config      *config.Config
	dispatcher  *predictor.Dispatcher
	tracker     *storage.ReelTracker
	emailSender reportSender
}

func NewReelAgent(cfg *config.Config) *ReelAgent {
	return &ReelAgent{
		config: cfg,
	}
}

func (a *ReelAgent) Name() string {
	return "Reel Predictor"
}

func (a *ReelAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.config.Inbox.Dir == "" {
		return fmt.Errorf("inbox directory must be configured (inbox.dir)")
	}

	if a.dispatcher == nil {
		client := predictor.NewHTTPClient(context.Background(), a.config.Analyzer.APIToken)
		a.dispatcher = predictor.NewDispatcher(client, a.config.Analyzer.Endpoint)
		log.Println("Analyzer dispatcher initialized")
	}

	if a.tracker == nil {
		tracker, err := storage.NewReelTracker(a.config.Inbox.DataDir, time.Duration(a.config.Inbox.TrackDays)*24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to create reel tracker: %w", err)
		}
		a.tracker = tracker
		log.Printf("Reel tracker initialized (%d reels tracked)", tracker.Count())
	}

	if a.emailSender == nil && a.config.Email.Enabled() {
		a.emailSender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	log.Printf("Watching inbox %s", a.config.Inbox.Dir)
	return nil
}

func (a *ReelAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	var metrics ReelMetrics

	entries, err := ScanInbox(a.config.Inbox.Dir, a.config.Inbox.CaptionExt)
	if err != nil {
		return err
	}
	metrics.Found = len(entries)

	var reports []*models.ReelReport
	var analyzedKeys []string

	for i, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		media, err := predictor.LoadMedia(entry.VideoPath)
		if err != nil {
			log.Printf("Warning: Skipping %s: %v", entry.VideoPath, err)
			metrics.ValidationErrors++
			continue
		}

		key := storage.ReelKey(media.Name, media.Size, media.ModTime)
		if a.tracker.IsAnalyzed(key) {
			metrics.Skipped++
			continue
		}

		log.Printf("Analyzing reel %d/%d: %s", i+1, len(entries), media.Name)
		snap, err := a.submit(ctx, models.Input{Media: media, Caption: entry.Caption})
		if err != nil {
			var ferr *predictor.Error
			if errors.As(err, &ferr) && ferr.Kind == predictor.KindValidation {
				metrics.ValidationErrors++
			} else {
				metrics.RequestErrors++
			}
			log.Printf("Warning: Failed to analyze %s: %v", media.Name, err)
			continue
		}

		reports = append(reports, &models.ReelReport{
			Source:  media.Name,
			Caption: entry.Caption,
			Report:  predictor.Render(snap.Result),
		})
		analyzedKeys = append(analyzedKeys, key)
		metrics.Analyzed++
	}

	if err := a.tracker.MarkAnalyzed(analyzedKeys...); err != nil {
		log.Printf("Warning: Failed to mark reels as analyzed: %v", err)
	}

	failed := metrics.ValidationErrors + metrics.RequestErrors
	if failed > 0 && metrics.Analyzed == 0 && metrics.RequestErrors > 0 {
		return fmt.Errorf("all %d reel submissions failed", failed)
	}
	if failed > 0 {
		events.OnPartialFailure(fmt.Errorf("%d of %d reels failed", failed, metrics.Found), time.Since(startTime))
	}

	if len(reports) > 0 && a.emailSender != nil {
		report := &models.EmailReport{
			Date:   time.Now(),
			Reels:  reports,
			Total:  metrics.Analyzed + failed,
			Failed: failed,
		}
		log.Printf("Sending email report with %d reels", len(reports))
		if err := a.emailSender.SendReport(report); err != nil {
			events.OnPartialFailure(fmt.Errorf("failed to send email report: %w", err), time.Since(startTime))
		} else {
			metrics.EmailSent = true
		}
	}

	events.OnSuccess(metrics, time.Since(startTime))
	return nil
}

// submit runs one dispatcher cycle bounded by the configured request timeout
func (a *ReelAgent) submit(ctx context.Context, in models.Input) (predictor.Snapshot, error) {
	if secs := a.config.Analyzer.RequestTimeoutSeconds; secs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}
	return a.dispatcher.Submit(ctx, in)
}
