package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/auctusventures/site/internal/contactform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type submitOptions struct {
	endpoint string
	values   map[string]*string
	timeout  time.Duration
}

func newSubmitCmd() *cobra.Command {
	opts := submitOptions{values: make(map[string]*string, len(contactform.FieldIDs))}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the contact form once and follow the confirmation redirect",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runSubmit(ctx, cmd.OutOrStdout(), opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "http://localhost:8080/api/submit-contact", "contact submission endpoint")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	for _, id := range contactform.FieldIDs {
		v := new(string)
		opts.values[id] = v
		cmd.Flags().StringVar(v, id, "", id+" field value")
	}
	return cmd
}

// runSubmit drives one form instance. The same cookie jar is used for the
// submission and the confirmation page so the session marker is honoured.
func runSubmit(ctx context.Context, out io.Writer, opts submitOptions, client *http.Client) error {
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return err
		}
		client = &http.Client{Jar: jar, Timeout: opts.timeout}
	}

	var confirmation string
	form := contactform.New(opts.endpoint,
		contactform.WithHTTPClient(client),
		contactform.WithFallbackEmail(cfg.ResendTo),
		contactform.WithNavigator(contactform.NavigatorFunc(func(target string) { confirmation = target })),
	)
	for id, v := range opts.values {
		if v == nil {
			continue
		}
		if err := form.SetValue(id, *v); err != nil {
			return err
		}
	}

	if err := form.Submit(ctx); err != nil {
		var submitErr *contactform.SubmitError
		if errors.As(err, &submitErr) {
			if logger != nil {
				logger.Error("submission failed", zap.Int("status", submitErr.Status), zap.Error(submitErr.Err))
			}
			fmt.Fprintln(out, submitErr.UserMessage())
		}
		return err
	}
	fmt.Fprintf(out, "Submitted. Navigating to %s\n", confirmation)

	return followConfirmation(ctx, out, client, confirmation)
}

// errConfirmationRedirected means the server accepted the submission but did
// not honour the session marker on the follow-up request.
var errConfirmationRedirected = errors.New("confirmation page redirected after a successful submission")

func followConfirmation(ctx context.Context, out io.Writer, client *http.Client, target string) error {
	noRedirect := *client
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		return fmt.Errorf("load confirmation page: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(out, "Confirmation page shown.")
		return nil
	case http.StatusFound, http.StatusSeeOther:
		// 通常是会话 cookie 带 Secure 标记却走了明文 HTTP
		return fmt.Errorf("%w to %s; check that the session cookie reaches the server (SESSION_COOKIE_SECURE over plain HTTP)",
			errConfirmationRedirected, resp.Header.Get("Location"))
	default:
		return fmt.Errorf("confirmation page returned %s", resp.Status)
	}
}
