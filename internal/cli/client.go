package cli

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/services"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/trade"
)

// Client talks to a running hunterbot server
type Client struct {
	client *resty.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// APIError is a non-2xx answer from the server
type APIError struct {
	Status     int
	Body       string
	Violations []trade.Violation
}

func (e *APIError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("server returned %d: %d invalid fields", e.Status, len(e.Violations))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

type validationBody struct {
	Error      string            `json:"error"`
	Violations []trade.Violation `json:"violations"`
}

func (c *Client) do(req *resty.Request, method, path string) error {
	var verr validationBody
	resp, err := req.SetError(&verr).Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Body: resp.String(), Violations: verr.Violations}
	}
	return nil
}

// Health returns the health endpoint's body
func (c *Client) Health() (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.do(c.client.R().SetResult(&out), resty.MethodGet, "/api/health")
	return out, err
}

// Strategies lists the bot strategies
func (c *Client) Strategies() ([]strategies.Strategy, error) {
	var out []strategies.Strategy
	err := c.do(c.client.R().SetResult(&out), resty.MethodGet, "/api/strategies")
	return out, err
}

// OpenSession starts a trade screen session
func (c *Client) OpenSession() (services.SessionView, error) {
	var out services.SessionView
	err := c.do(c.client.R().SetResult(&out), resty.MethodPost, "/api/sessions")
	return out, err
}

// Session fetches a session view
func (c *Client) Session(id string) (services.SessionView, error) {
	var out services.SessionView
	err := c.do(c.client.R().SetResult(&out), resty.MethodGet, "/api/sessions/"+id)
	return out, err
}

// CloseSession discards a session
func (c *Client) CloseSession(id string) error {
	return c.do(c.client.R(), resty.MethodDelete, "/api/sessions/"+id)
}

// ReplaceRows swaps the session's draft
func (c *Client) ReplaceRows(id string, rows []models.TradeInstruction) ([]models.TradeInstruction, error) {
	var out []models.TradeInstruction
	err := c.do(c.client.R().SetBody(rows).SetResult(&out), resty.MethodPut, "/api/sessions/"+id+"/rows")
	return out, err
}

// Submit submits the session's draft
func (c *Client) Submit(id string) ([]trade.DisplayRow, error) {
	var out []trade.DisplayRow
	err := c.do(c.client.R().SetResult(&out), resty.MethodPost, "/api/sessions/"+id+"/submit")
	return out, err
}

// GenerateBot starts the mock bot
func (c *Client) GenerateBot(id, strategy string) (services.SessionView, error) {
	var out services.SessionView
	body := map[string]string{"strategy": strategy}
	err := c.do(c.client.R().SetBody(body).SetResult(&out), resty.MethodPost, "/api/sessions/"+id+"/bot")
	return out, err
}

// WaitForBot polls the session until the bot has finished
func (c *Client) WaitForBot(id string, interval, timeout time.Duration) (services.SessionView, error) {
	deadline := time.Now().Add(timeout)
	for {
		view, err := c.Session(id)
		if err != nil {
			return view, err
		}
		if !view.Generating {
			return view, nil
		}
		if time.Now().After(deadline) {
			return view, fmt.Errorf("bot still generating after %s", timeout)
		}
		time.Sleep(interval)
	}
}

// Login exchanges credentials for a bearer token used by later calls
func (c *Client) Login(username, password string) error {
	var out models.TokenResponse
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.do(c.client.R().SetBody(body).SetResult(&out), resty.MethodPost, "/api/login"); err != nil {
		return err
	}
	c.client.SetAuthToken(out.AccessToken)
	return nil
}

// Submissions lists the journal, newest first
func (c *Client) Submissions(limit int) ([]models.Submission, error) {
	var out []models.Submission
	req := c.client.R().SetResult(&out).SetQueryParam("limit", fmt.Sprint(limit))
	err := c.do(req, resty.MethodGet, "/api/submissions")
	return out, err
}
