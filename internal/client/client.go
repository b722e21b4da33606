// Package client talks to the MindGuide HTTP API. Every call names the user
// and conversation it acts on; the client keeps no ambient ids.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// APIError is a response with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

type Stats struct {
	TotalSessions   int     `json:"totalSessions"`
	CurrentStreak   int     `json:"currentStreak"`
	BadgesEarned    int     `json:"badgesEarned"`
	LastSessionDate *string `json:"lastSessionDate"`
}

type MoodLog struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Mood     int     `json:"mood"`
	Activity *string `json:"activity"`
}

type MoodEntry struct {
	Mood     int
	Activity string
	Date     string // YYYY-MM-DD, empty for today
}

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	var out Session
	err := c.post(ctx, "/api/signup", map[string]string{"email": email, "password": password, "name": name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	err := c.post(ctx, "/api/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, userID uint64) error {
	return c.post(ctx, "/api/logout", map[string]any{"user_id": userID}, nil)
}

func (c *Client) SendMessage(ctx context.Context, conversationID, userID uint64, content string) (user, bot Message, err error) {
	var out struct {
		UserMessage Message `json:"user_message"`
		BotMessage  Message `json:"bot_message"`
	}
	err = c.post(ctx, "/api/send_message", map[string]any{
		"conversation_id": conversationID,
		"user_id":         userID,
		"content":         content,
	}, &out)
	if err != nil {
		return Message{}, Message{}, err
	}
	return out.UserMessage, out.BotMessage, nil
}

func (c *Client) GetChats(ctx context.Context, userID, conversationID uint64) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatUint(userID, 10))
	q.Set("conversation_id", strconv.FormatUint(conversationID, 10))
	if err := c.get(ctx, "/api/get_chats", q, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) GetStats(ctx context.Context, userID uint64) (*Stats, error) {
	var out struct {
		Stats Stats `json:"stats"`
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatUint(userID, 10))
	if err := c.get(ctx, "/api/get_stats", q, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

func (c *Client) GetMoodLogs(ctx context.Context, userID uint64, days int) ([]MoodLog, error) {
	var out struct {
		Logs []MoodLog `json:"logs"`
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatUint(userID, 10))
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	if err := c.get(ctx, "/api/get_mood_logs", q, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *Client) LogMood(ctx context.Context, userID uint64, e MoodEntry) (*MoodLog, error) {
	var out struct {
		Log MoodLog `json:"log"`
	}
	err := c.post(ctx, "/api/log_mood", map[string]any{
		"user_id":  userID,
		"mood":     e.Mood,
		"activity": e.Activity,
		"date":     e.Date,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Log, nil
}

// Contact returns the submission id.
func (c *Client) Contact(ctx context.Context, f ContactForm) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/contact", f, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
