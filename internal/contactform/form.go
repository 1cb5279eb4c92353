// Package contactform binds the seven contact fields to the submission
// endpoint and manages the single in-flight submission of a form instance.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/auctusventures/site/internal/gate"
)

// FieldIDs are the fixed input identifiers read on submit.
var FieldIDs = []string{"name", "email", "company", "phone", "service", "timeline", "message"}

const (
	DefaultLabel     = "Send message"
	SendingLabel     = "Sending..."
	ConfirmationPath = "/contact-confirmation"
)

var (
	// ErrSubmitInFlight is returned while the submit control is disabled.
	ErrSubmitInFlight = errors.New("contact form: submission already in flight")
	// ErrUnknownField is returned by SetValue for identifiers outside FieldIDs.
	ErrUnknownField = errors.New("contact form: unknown field")
)

// SubmitButton is the state of the submit control.
type SubmitButton struct {
	Label    string
	Disabled bool
}

// Navigator moves the visitor to another page.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Form is one instance of the contact form. It is safe for concurrent use;
// a second Submit while one is in flight fails with ErrSubmitInFlight.
type Form struct {
	mu           sync.Mutex
	endpoint     string
	confirmation string
	fallback     string
	values       map[string]string
	button       SubmitButton
	location     string

	http      httpDoer
	markers   gate.MarkerStore
	gate      gate.Gate
	navigator Navigator
	now       func() time.Time
}

// Option configures a Form.
type Option func(*Form)

// WithHTTPClient sets the transport used for the submission.
func WithHTTPClient(client httpDoer) Option {
	return func(f *Form) {
		if client != nil {
			f.http = client
		}
	}
}

// WithMarkerStore sets the session storage the confirmation marker is written to.
func WithMarkerStore(store gate.MarkerStore) Option {
	return func(f *Form) {
		if store != nil {
			f.markers = store
		}
	}
}

// WithNavigator is called with the confirmation URL after a successful submission.
func WithNavigator(n Navigator) Option {
	return func(f *Form) { f.navigator = n }
}

// WithFallbackEmail is mentioned in the user-facing failure message.
func WithFallbackEmail(addr string) Option {
	return func(f *Form) { f.fallback = strings.TrimSpace(addr) }
}

// WithConfirmationPath overrides the page visited after success. Relative
// paths are resolved against the endpoint.
func WithConfirmationPath(path string) Option {
	return func(f *Form) {
		if strings.TrimSpace(path) != "" {
			f.confirmation = strings.TrimSpace(path)
		}
	}
}

// WithClock overrides the marker timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLabel sets the idle label of the submit control.
func WithLabel(label string) Option {
	return func(f *Form) {
		if label != "" {
			f.button.Label = label
		}
	}
}

// New returns an empty form posting to endpoint.
func New(endpoint string, opts ...Option) *Form {
	f := &Form{
		endpoint:     strings.TrimSpace(endpoint),
		confirmation: ConfirmationPath,
		values:       make(map[string]string, len(FieldIDs)),
		button:       SubmitButton{Label: DefaultLabel},
		http:         &http.Client{Timeout: 30 * time.Second},
		markers:      gate.NewMemoryStore(),
		gate:         gate.New(gate.DefaultKey),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetValue writes the input identified by id.
func (f *Form) SetValue(id, value string) error {
	if !knownField(id) {
		return fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[id] = value
	return nil
}

// Value reads the input identified by id.
func (f *Form) Value(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[id]
}

// Button returns the current submit control state.
func (f *Form) Button() SubmitButton {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.button
}

// Location returns the last page navigated to, or "" if none.
func (f *Form) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location
}

// Markers exposes the session storage so a confirmation view can consume the marker.
func (f *Form) Markers() gate.MarkerStore {
	return f.markers
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submit posts the current values once. On success it writes the marker,
// clears the fields and navigates to the confirmation page. On failure the
// values are kept and a *SubmitError is returned. The submit control is
// restored on every path.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.button.Disabled {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	original := f.button.Label
	f.button = SubmitButton{Label: SendingLabel, Disabled: true}
	payload := make(map[string]string, len(FieldIDs))
	for _, id := range FieldIDs {
		payload[id] = f.values[id]
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.button = SubmitButton{Label: original}
		f.mu.Unlock()
	}()

	if err := f.post(ctx, payload); err != nil {
		return err
	}

	if err := f.gate.Mark(f.markers, f.now()); err != nil {
		return f.failure(0, "", fmt.Errorf("store confirmation marker: %w", err))
	}

	target := f.confirmationURL()
	f.mu.Lock()
	f.values = make(map[string]string, len(FieldIDs))
	f.location = target
	f.mu.Unlock()

	if f.navigator != nil {
		f.navigator.Navigate(target)
	}
	return nil
}

func (f *Form) post(ctx context.Context, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return f.failure(0, "", fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return f.failure(0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return f.failure(0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return f.failure(resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	var result submitResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return f.failure(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		msg := strings.TrimSpace(result.Error)
		if msg == "" {
			msg = "Failed to submit form"
		}
		return f.failure(resp.StatusCode, msg, errors.New(msg))
	}
	return nil
}

func (f *Form) failure(status int, serverMessage string, err error) *SubmitError {
	return &SubmitError{
		Status:        status,
		ServerMessage: serverMessage,
		Err:           err,
		fallbackEmail: f.fallback,
	}
}

func (f *Form) confirmationURL() string {
	base, err := url.Parse(f.endpoint)
	if err != nil || base.Host == "" {
		return f.confirmation
	}
	ref, err := url.Parse(f.confirmation)
	if err != nil {
		return f.confirmation
	}
	return base.ResolveReference(ref).String()
}

func knownField(id string) bool {
	for _, known := range FieldIDs {
		if known == id {
			return true
		}
	}
	return false
}

// SubmitError describes a failed submission. Status is 0 when no response
// was received.
type SubmitError struct {
	Status        int
	ServerMessage string
	Err           error
	fallbackEmail string
}

func (e *SubmitError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("contact form: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("contact form: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the visitor.
func (e *SubmitError) UserMessage() string {
	msg := "Sorry, there was an error submitting your form. Please try again"
	if e.fallbackEmail != "" {
		msg += " or email us directly at " + e.fallbackEmail
	}
	return msg + "."
}
