package forms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
)

var ErrNoEndpoint = errors.New("no endpoint configured")

const maxDetail = 200

// Query is the contact form.
type Query struct {
	Name    string `validate:"required,max=80"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=2000"`
}

var validate = validator.New()

func (q Query) Validate() error {
	q.Name = strings.TrimSpace(q.Name)
	q.Email = strings.TrimSpace(q.Email)
	q.Message = strings.TrimSpace(q.Message)

	err := validate.Struct(q)
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Name":
		return errors.New("please enter your name")
	case "Email":
		return errors.New("please enter a valid email address")
	default:
		return errors.New("please enter your query (up to 2000 characters)")
	}
}

// SubmitError is a rejected submission. Detail is the page title or message
// the endpoint sent back.
type SubmitError struct {
	Status int
	Detail string
}

func (e *SubmitError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("submission failed with status %d", e.Status)
	}
	return fmt.Sprintf("submission failed with status %d: %s", e.Status, e.Detail)
}

// Client posts form submissions to the spreadsheet script endpoints. Nothing
// in the calculators waits on it.
type Client struct {
	ProfileEndpoint string
	QueryEndpoint   string
	HTTP            *http.Client
	Logger          gokitlog.Logger
}

func NewClient(profileEndpoint, queryEndpoint string, timeout time.Duration, logger gokitlog.Logger) *Client {
	if logger == nil {
		logger = gokitlog.NewNopLogger()
	}
	return &Client{
		ProfileEndpoint: profileEndpoint,
		QueryEndpoint:   queryEndpoint,
		HTTP:            &http.Client{Timeout: timeout},
		Logger:          logger,
	}
}

func (c *Client) SubmitProfile(ctx context.Context, p session.Profile) error {
	form := url.Values{}
	form.Set("name", p.Name)
	form.Set("department", p.Department)
	form.Set("yearOfStudy", strconv.Itoa(p.YearOfStudy))
	form.Set("timestamp", time.Now().UTC().Format(time.RFC3339))
	return c.post(ctx, "profile", c.ProfileEndpoint, form)
}

func (c *Client) SubmitQuery(ctx context.Context, q Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	form := url.Values{}
	form.Set("name", strings.TrimSpace(q.Name))
	form.Set("email", strings.TrimSpace(q.Email))
	form.Set("query", strings.TrimSpace(q.Message))
	return c.post(ctx, "query", c.QueryEndpoint, form)
}

func (c *Client) post(ctx context.Context, kind, endpoint string, form url.Values) error {
	if endpoint == "" {
		level.Debug(c.Logger).Log("msg", "submission skipped", "kind", kind, "err", ErrNoEndpoint)
		return ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		level.Warn(c.Logger).Log("msg", "submission failed", "kind", kind, "err", err)
		return fmt.Errorf("failed to submit %s: %w", kind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", kind, err)
	}

	if err := checkResponse(resp, body); err != nil {
		level.Warn(c.Logger).Log("msg", "submission rejected", "kind", kind, "status", resp.StatusCode, "err", err)
		return err
	}

	level.Info(c.Logger).Log("msg", "submission sent", "kind", kind, "took", time.Since(start))
	return nil
}

type scriptReply struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

func checkResponse(resp *http.Response, body []byte) error {
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmitError{Status: resp.StatusCode, Detail: detail(contentType, body)}
	}

	// Apps Script answers {"result":"error",...} with a 200.
	if strings.Contains(contentType, "json") {
		var reply scriptReply
		if err := sonic.Unmarshal(body, &reply); err == nil && reply.Result == "error" {
			return &SubmitError{Status: resp.StatusCode, Detail: truncate(reply.Error)}
		}
	}
	return nil
}

func detail(contentType string, body []byte) string {
	if !strings.Contains(contentType, "html") {
		return truncate(strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return truncate(title)
	}
	return truncate(strings.Join(strings.Fields(doc.Find("body").Text()), " "))
}

// truncate keeps at most maxDetail runes.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxDetail {
		return s
	}
	return string([]rune(s)[:maxDetail]) + "…"
}
