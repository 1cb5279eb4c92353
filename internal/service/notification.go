package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// NotificationTimeLayout mirrors the en-US locale string used in the email footer.
const NotificationTimeLayout = "1/2/2006, 3:04:05 PM"

// NotificationMessage 是一封已渲染好的通知邮件。
type NotificationMessage struct {
	Subject string
	HTML    string
	Text    string
}

// NotificationRenderer 将表单内容渲染为通知邮件，留言按 Markdown 渲染后再做白名单过滤。
type NotificationRenderer struct {
	location  *time.Location
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewNotificationRenderer loads the named zone, falling back to UTC when it is
// unknown to the host.
func NewNotificationRenderer(timezone string) *NotificationRenderer {
	loc, err := time.LoadLocation(strings.TrimSpace(timezone))
	if err != nil || strings.TrimSpace(timezone) == "" {
		loc = time.UTC
	}
	return &NotificationRenderer{
		location: loc,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Location returns the zone used for the "Submitted at" footer.
func (r *NotificationRenderer) Location() *time.Location {
	return r.location
}

type notificationView struct {
	Name        string
	Email       string
	Company     string
	Phone       string
	PhoneHref   template.URL
	Service     string
	Timeline    string
	Message     template.HTML
	SubmittedAt string
	RequestID   string
}

var notificationHTML = template.Must(template.New("notification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #5d56ff;">New Contact Form Submission</h2>
    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0;">Contact Information</h3>
        <p><strong>Name:</strong> {{.Name}}</p>
        <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
        <p><strong>Company:</strong> {{.Company}}</p>
        <p><strong>Phone:</strong> <a href="{{.PhoneHref}}">{{.Phone}}</a></p>
    </div>
    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0;">Project Details</h3>
        <p><strong>Service Interest:</strong> {{.Service}}</p>
        <p><strong>Timeline:</strong> {{.Timeline}}</p>
    </div>
    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0;">Message</h3>
        <div>{{.Message}}</div>
    </div>
    <p style="color: #666; font-size: 14px; margin-top: 30px;">
        Submitted at: {{.SubmittedAt}}{{if .RequestID}} · Ref {{.RequestID}}{{end}}
    </p>
</div>`))

// Render builds subject, HTML and plain-text bodies. submittedAt is converted
// to the renderer's zone.
func (r *NotificationRenderer) Render(input ContactInput, submittedAt time.Time, requestID string) (NotificationMessage, error) {
	var md bytes.Buffer
	if err := r.markdown.Convert([]byte(input.Message), &md); err != nil {
		return NotificationMessage{}, fmt.Errorf("render message markdown: %w", err)
	}

	stamp := submittedAt.In(r.location).Format(NotificationTimeLayout)
	view := notificationView{
		Name:        input.Name,
		Email:       input.Email,
		Company:     input.Company,
		Phone:       input.Phone,
		PhoneHref:   telHref(input.Phone),
		Service:     input.Service,
		Timeline:    input.Timeline,
		Message:     template.HTML(r.sanitizer.SanitizeBytes(md.Bytes())),
		SubmittedAt: stamp,
		RequestID:   requestID,
	}

	var out bytes.Buffer
	if err := notificationHTML.Execute(&out, view); err != nil {
		return NotificationMessage{}, fmt.Errorf("render notification html: %w", err)
	}

	return NotificationMessage{
		Subject: fmt.Sprintf("New Contact Form Submission from %s", singleLine(input.Name)),
		HTML:    out.String(),
		Text:    renderText(input, stamp),
	}, nil
}

func renderText(input ContactInput, stamp string) string {
	var b strings.Builder
	b.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", input.Name)
	fmt.Fprintf(&b, "Email: %s\n", input.Email)
	fmt.Fprintf(&b, "Company: %s\n", input.Company)
	fmt.Fprintf(&b, "Phone: %s\n\n", input.Phone)
	fmt.Fprintf(&b, "Service Interest: %s\n", input.Service)
	fmt.Fprintf(&b, "Timeline: %s\n\n", input.Timeline)
	fmt.Fprintf(&b, "Message:\n%s\n\n", input.Message)
	fmt.Fprintf(&b, "Submitted at: %s\n", stamp)
	return b.String()
}

// telHref keeps only dialable characters so the link survives html/template's URL filter.
func telHref(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}

// singleLine guards the subject header against embedded newlines.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
