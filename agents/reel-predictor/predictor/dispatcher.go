package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reel-predictor/internal/models"
)

// maxResponseBytes bounds how much of an analyzer response is read
const maxResponseBytes = 8 << 20

// State of the request cycle
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a consistent view of the dispatcher.
//
// Result is set only in Succeeded, or when a validation error was raised on top of an
// earlier success. Err is the single message on display, if any.
type Snapshot struct {
	State  State
	Result *models.AnalysisResult
	Err    *Error
}

// Busy reports whether a request is in flight
func (s Snapshot) Busy() bool {
	return s.State == Submitting
}

// Dispatcher runs at most one analysis request at a time and owns the outcome slot
type Dispatcher struct {
	client   Doer
	endpoint string

	mu       sync.Mutex
	snap     Snapshot
	onChange func(Snapshot)
}

func NewDispatcher(client Doer, endpoint string) *Dispatcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Dispatcher{
		client:   client,
		endpoint: endpoint,
	}
}

// OnChange registers fn to receive every committed snapshot. fn runs while the dispatcher
// lock is held and must not call back into the dispatcher.
func (d *Dispatcher) OnChange(fn func(Snapshot)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

// Snapshot returns the current state
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// commit replaces the snapshot; d.mu must be held
func (d *Dispatcher) commit(s Snapshot) {
	d.snap = s
	if d.onChange != nil {
		d.onChange(s)
	}
}

// Submit validates in and, if it passes, sends it to the analyzer and waits for the outcome.
//
// While another submission is running Submit does nothing and returns ErrInFlight.
// A validation failure only replaces the displayed error. Otherwise the previous result and
// error are cleared before the request is sent, and the returned snapshot is either
// Succeeded or Failed. Cancelling ctx aborts the request and fails the cycle.
func (d *Dispatcher) Submit(ctx context.Context, in models.Input) (Snapshot, error) {
	d.mu.Lock()
	if d.snap.Busy() {
		snap := d.snap
		d.mu.Unlock()
		return snap, ErrInFlight
	}

	if verr := Validate(in); verr != nil {
		next := d.snap
		next.Err = verr
		d.commit(next)
		d.mu.Unlock()
		return next, verr
	}

	d.commit(Snapshot{State: Submitting})
	d.mu.Unlock()

	requestID := uuid.NewString()
	start := time.Now()
	slog.Info("submitting reel", "request_id", requestID, "file", in.Media.Name, "size", in.Media.Size)

	result, ferr := d.analyze(ctx, requestID, in)

	var next Snapshot
	if ferr != nil {
		slog.Warn("reel analysis failed", "request_id", requestID, "kind", ferr.Kind.String(),
			"status", ferr.StatusCode, "error", ferr.Message, "duration", time.Since(start))
		next = Snapshot{State: Failed, Err: ferr}
	} else {
		slog.Info("reel analysis succeeded", "request_id", requestID, "duration", time.Since(start))
		next = Snapshot{State: Succeeded, Result: result}
	}

	d.mu.Lock()
	d.commit(next)
	d.mu.Unlock()

	if ferr != nil {
		return next, ferr
	}
	return next, nil
}

func (d *Dispatcher) analyze(ctx context.Context, requestID string, in models.Input) (*models.AnalysisResult, *Error) {
	body, contentType, err := buildPayload(in)
	if err != nil {
		return nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, body)
	if err != nil {
		return nil, transportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, errorMessage(data))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, transportError(fmt.Errorf("failed to parse analysis response: %w", err))
	}
	return &result, nil
}

// errorMessage extracts a string "error" field from a failure body; "" when there is none
func errorMessage(data []byte) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Error) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(body.Error, &msg); err != nil {
		return ""
	}
	return msg
}

// buildPayload encodes the multipart body with a "file" part and a "caption" field
func buildPayload(in models.Input) (io.Reader, string, error) {
	if in.Media.Open == nil {
		return nil, "", errors.New("media has no content")
	}
	src, err := in.Media.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open media: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := in.Media.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.Media.Name)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to read media: %w", err)
	}

	if err := w.WriteField("caption", in.Caption); err != nil {
		return nil, "", fmt.Errorf("failed to write caption: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish payload: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
