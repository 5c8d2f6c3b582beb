// Package datastore reads and updates user profiles in a Supabase PostgREST backend.
package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/choiben-assist/ai-backend/internal/config"
	"go.uber.org/zap"
)

const profilesPath = "/rest/v1/user_profiles"

var (
	ErrNotConfigured   = errors.New("datastore: url or anon key not configured")
	ErrProfileNotFound = errors.New("datastore: profile not found")
)

// Profile is the subset of a user_profiles row this service cares about.
type Profile struct {
	ID                  string         `json:"id"`
	LearningPreferences map[string]any `json:"-"`
	ScrapboxProject     string         `json:"scrapbox_project,omitempty"`
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                  string          `json:"id"`
		LearningPreferences json.RawMessage `json:"learning_preferences"`
		ScrapboxProject     *string         `json:"scrapbox_project"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	if raw.ScrapboxProject != nil {
		p.ScrapboxProject = *raw.ScrapboxProject
	}
	p.LearningPreferences = nil
	if len(raw.LearningPreferences) > 0 {
		var prefs map[string]any
		// Non-object preferences are treated as absent.
		if json.Unmarshal(raw.LearningPreferences, &prefs) == nil {
			p.LearningPreferences = prefs
		}
	}
	return nil
}

// NotesProject returns learning_preferences.scrapbox_project when the
// preferences object exists, otherwise the top-level scrapbox_project.
func (p *Profile) NotesProject() string {
	if p.LearningPreferences != nil {
		s, _ := p.LearningPreferences["scrapbox_project"].(string)
		return s
	}
	return p.ScrapboxProject
}

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration
	log        *zap.Logger
}

func New(cfg config.DataStoreConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	attempts := uint(1)
	if cfg.Retries > 0 {
		attempts = uint(cfg.Retries)
	}
	c := &Client{
		baseURL:    cfg.URL,
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		attempts:   attempts,
		retryDelay: 300 * time.Millisecond,
		log:        log.Named("datastore"),
	}
	if !c.Configured() {
		c.log.Warn("supabase credentials not configured")
	}
	return c
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// GetProfile fetches one profile by id. Transport failures and 5xx replies are retried.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("id", "eq."+userID)
	q.Set("select", "*")

	var rows []Profile
	err := retry.Do(
		func() error {
			body, status, err := c.do(ctx, http.MethodGet, q, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				err := fmt.Errorf("get profile: unexpected status %d", status)
				if status < http.StatusInternalServerError {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if err := json.Unmarshal(body, &rows); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.log.Error("failed to fetch profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		c.log.Warn("profile not found", zap.String("user_id", userID))
		return nil, ErrProfileNotFound
	}
	return &rows[0], nil
}

// NotesProject resolves the user's notes project; "" means none is set.
func (c *Client) NotesProject(ctx context.Context, userID string) (string, error) {
	p, err := c.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.NotesProject(), nil
}

// UpdateNotesProject stores project under learning_preferences, keeping other preference keys.
func (c *Client) UpdateNotesProject(ctx context.Context, userID, project string) error {
	p, err := c.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	prefs := p.LearningPreferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	prefs["scrapbox_project"] = project

	payload, err := json.Marshal(map[string]any{"learning_preferences": prefs})
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("id", "eq."+userID)

	_, status, err := c.do(ctx, http.MethodPatch, q, payload)
	if err != nil {
		c.log.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if status != http.StatusNoContent {
		c.log.Error("unexpected update status", zap.String("user_id", userID), zap.Int("status", status))
		return fmt.Errorf("update profile: unexpected status %d", status)
	}
	c.log.Info("notes project updated", zap.String("user_id", userID), zap.String("project", project))
	return nil
}

func (c *Client) do(ctx context.Context, method string, q url.Values, body []byte) ([]byte, int, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+profilesPath+"?"+q.Encode(), rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
