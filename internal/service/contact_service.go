package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auctusventures/site/internal/db"
	"github.com/auctusventures/site/internal/reqctx"
	"go.uber.org/zap"
)

var (
	// ErrFieldsRequired 表示至少有一个必填字段为空。
	ErrFieldsRequired = errors.New("all fields are required")
	// ErrNotificationFailed 表示通知邮件发送失败，整个请求视为失败。
	ErrNotificationFailed = errors.New("notification failed")
)

// ContactFields lists the required form fields in submission order.
var ContactFields = []string{"name", "email", "company", "phone", "service", "timeline", "message"}

// ContactInput carries one submission as received from the client.
type ContactInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Timeline string `json:"timeline"`
	Message  string `json:"message"`
}

// Value returns the field named by its form identifier.
func (in ContactInput) Value(field string) string {
	switch field {
	case "name":
		return in.Name
	case "email":
		return in.Email
	case "company":
		return in.Company
	case "phone":
		return in.Phone
	case "service":
		return in.Service
	case "timeline":
		return in.Timeline
	case "message":
		return in.Message
	}
	return ""
}

// MissingFields returns the identifiers of empty fields, in form order.
// Whitespace counts as a value; no format checks are applied.
func (in ContactInput) MissingFields() []string {
	var missing []string
	for _, field := range ContactFields {
		if in.Value(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func (in ContactInput) record() *db.ContactSubmission {
	return &db.ContactSubmission{
		Name:     in.Name,
		Email:    in.Email,
		Company:  in.Company,
		Phone:    in.Phone,
		Service:  in.Service,
		Timeline: in.Timeline,
		Message:  in.Message,
	}
}

// FieldsError lists the blank fields of a rejected submission.
type FieldsError struct {
	Missing []string
}

func (e *FieldsError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrFieldsRequired, strings.Join(e.Missing, ", "))
}

func (e *FieldsError) Is(target error) bool {
	return target == ErrFieldsRequired
}

// SubmissionRecorder persists submissions. Failures are advisory.
type SubmissionRecorder interface {
	Insert(ctx context.Context, record *db.ContactSubmission) error
}

// SubmitResult reports what happened to the advisory store write.
type SubmitResult struct {
	Persisted    bool
	SubmissionID uint
}

// ContactService validates, records and notifies, in that order. The email is
// the delivery channel of record; the store is an audit log whose failure
// never fails a submission.
type ContactService struct {
	recorder SubmissionRecorder
	notifier Notifier
	renderer *NotificationRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewContactService wires the service. recorder may be nil to disable persistence.
func NewContactService(recorder SubmissionRecorder, notifier Notifier, renderer *NotificationRenderer, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = NewNotificationRenderer("")
	}
	if recorder == nil {
		logger.Warn("DATABASE_URL is not set; contact submissions will not be persisted")
	}
	return &ContactService{
		recorder: recorder,
		notifier: notifier,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source used in notifications.
func (s *ContactService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Submit handles one submission. Each dependency is attempted at most once.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (SubmitResult, error) {
	if missing := input.MissingFields(); len(missing) > 0 {
		return SubmitResult{}, &FieldsError{Missing: missing}
	}

	requestID := reqctx.GetRequestID(ctx)
	log := s.logger.With(zap.String("request_id", requestID))

	var result SubmitResult
	if s.recorder != nil {
		record := input.record()
		if err := s.recorder.Insert(ctx, record); err != nil {
			log.Error("database error, continuing with notification", zap.Error(err))
		} else {
			result.Persisted = true
			result.SubmissionID = record.ID
		}
	}

	if s.notifier == nil {
		return result, fmt.Errorf("%w: no notifier configured", ErrNotificationFailed)
	}

	msg, err := s.renderer.Render(input, s.now(), requestID)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		log.Error("form submission error", zap.Error(err), zap.Bool("persisted", result.Persisted))
		return result, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	log.Info("contact submission delivered",
		zap.Bool("persisted", result.Persisted),
		zap.Uint("submission_id", result.SubmissionID),
	)
	return result, nil
}
