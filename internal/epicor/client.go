// Package epicor implements the ERP session client: a single-step login and
// the case operations exposed by the Omni function library.
package epicor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/omnitool/omni/internal/session"
)

// functionLibrary is the path prefix of the Omni function library endpoints.
const functionLibrary = "/api/v2/efx/100/Omni/"

// Client talks to one Epicor instance. Every request carries the tenant's
// API key; authenticated requests add the session's bearer token.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates an ERP client scoped to baseURL. A nil httpClient gets a
// 30 second timeout; tests inject an httptest server's client and URL.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// Authenticate performs the single-step login, exchanging the username and
// password for a session token scoped to the client's base URL.
func (c *Client) Authenticate(ctx context.Context, username, password string) (session.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/auth/token", nil)
	if err != nil {
		return session.Session{}, err
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", session.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return session.Session{}, err
	}

	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return session.Session{}, fmt.Errorf("decoding token response: %w", err)
	}

	return session.Session{
		Token:      out.AccessToken,
		ObtainedAt: time.Now(),
		TTL:        time.Duration(out.ExpiresIn) * time.Second,
	}, nil
}

// CompleteTask completes the case's current open task and assigns the next
// one. It is a two-part workflow: read the open task, then submit the
// completion. A failure after the read succeeded surfaces as a
// PartialCompletionError so the caller knows the case was reached but not
// mutated cleanly. comment is optional; empty means no comment.
func (c *Client) CompleteTask(ctx context.Context, sess session.Session, caseNumber, assignTo, comment string) error {
	var task getCaseTaskResponse
	if err := c.call(ctx, sess, "GetCaseTask", caseRequest{CaseNum: caseNumber}, &task); err != nil {
		return err
	}
	if task.Error {
		return &RemoteError{Message: task.Message}
	}
	if !task.HasActiveTask {
		return fmt.Errorf("%w: case %s", ErrNoOpenTask, caseNumber)
	}

	in := completeTaskRequest{
		CaseNum:          caseNumber,
		AssignNextToName: assignTo,
		Comment:          comment,
	}
	var out completeTaskResponse
	if err := c.call(ctx, sess, "CompleteTask", in, &out); err != nil {
		// A local expiry check stops the call before anything is sent, so
		// the case was never touched and there is nothing partial about it.
		if errors.Is(err, session.ErrExpired) {
			return err
		}
		return &PartialCompletionError{CaseNumber: caseNumber, Err: err}
	}
	if out.Error {
		return &PartialCompletionError{CaseNumber: caseNumber, Err: &RemoteError{Message: out.Message}}
	}
	if out.NoSalesRepMatch {
		return &PartialCompletionError{CaseNumber: caseNumber, Err: &RemoteError{Message: fmt.Sprintf("no sales rep matches %q", assignTo)}}
	}
	if out.MultipleSalesRepMatches {
		return &PartialCompletionError{CaseNumber: caseNumber, Err: &RemoteError{Message: fmt.Sprintf("multiple sales reps match %q", assignTo)}}
	}
	if !out.AuthorizedToCompleteTask {
		return &PartialCompletionError{CaseNumber: caseNumber, Err: &RemoteError{Message: "not authorized to complete the current task"}}
	}
	return nil
}

// GetStatus returns the case's current status snapshot.
func (c *Client) GetStatus(ctx context.Context, sess session.Session, caseNumber string) (CaseStatus, error) {
	var out caseStatusResponse
	if err := c.call(ctx, sess, "GetCaseStatus", caseRequest{CaseNum: caseNumber}, &out); err != nil {
		return CaseStatus{}, err
	}
	if out.Error {
		return CaseStatus{}, &RemoteError{Message: out.Message}
	}
	if !out.CaseFound {
		return CaseStatus{}, fmt.Errorf("%w: case %s", ErrCaseNotFound, caseNumber)
	}
	return out.toCaseStatus(), nil
}

// AddComment appends a comment to the case.
func (c *Client) AddComment(ctx context.Context, sess session.Session, caseNumber, comment string) error {
	var out addCommentResponse
	if err := c.call(ctx, sess, "AddCaseComment", addCommentRequest{CaseNum: caseNumber, Comment: comment}, &out); err != nil {
		return err
	}
	if out.Error {
		return &RemoteError{Message: out.Message}
	}
	return nil
}

// LastComment returns the case's most recent comment, or the empty string
// when the case has none.
func (c *Client) LastComment(ctx context.Context, sess session.Session, caseNumber string) (string, error) {
	var out lastCommentResponse
	if err := c.call(ctx, sess, "GetLastComment", caseRequest{CaseNum: caseNumber}, &out); err != nil {
		return "", err
	}
	if out.Error {
		return "", &RemoteError{Message: out.Message}
	}
	return out.Comment, nil
}

// UpdateQuote updates the quantity on the quote attached to the case.
func (c *Client) UpdateQuote(ctx context.Context, sess session.Session, caseNumber string, quantity float64) error {
	var out updateQuoteResponse
	if err := c.call(ctx, sess, "UpdateCaseQuote", updateQuoteRequest{CaseNum: caseNumber, Qty: quantity}, &out); err != nil {
		return err
	}
	if out.Error {
		return &RemoteError{Message: out.Message}
	}
	return nil
}

// call posts a JSON body to one function library endpoint and decodes the
// reply. The session expiry check happens here, locally, before any request
// is issued.
func (c *Client) call(ctx context.Context, sess session.Session, fn string, in, out any) error {
	if !sess.Valid(time.Now()) {
		return session.ErrExpired
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+functionLibrary+fn, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The function library endpoints only 404 when the library has not
		// been published on this Epicor instance.
		return fmt.Errorf("the Omni function library is not published in Epicor (missing %s)", fn)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", fn, err)
	}
	return nil
}

// checkStatus maps a non-2xx response to the shared auth taxonomy.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: epicor returned %d", session.ErrInvalidCredentials, resp.StatusCode)
	}
	return &session.UnexpectedStatusError{Status: resp.StatusCode, Body: string(body)}
}
