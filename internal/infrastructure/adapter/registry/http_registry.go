package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
)

// Error codes the registry puts in a 409 body
const (
	codeTournamentFull = "tournament_full"
	codeAlreadyJoined  = "already_joined"
)

const maxErrorBody = 4 << 10

// Options configures the HTTP registry client
type Options struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// HTTPRegistry talks to the tournament service over HTTP. Registrations carry the
// registration id as Idempotency-Key, so a retried POST cannot take a second slot.
type HTTPRegistry struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
	logger  coreport.Logger
}

var _ external.TournamentRegistry = (*HTTPRegistry)(nil)

// NewHTTPRegistry creates a client for the registry at opts.BaseURL
func NewHTTPRegistry(opts Options, logger coreport.Logger) (*HTTPRegistry, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid registry base URL %q", opts.BaseURL)
	}

	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{logger: logger}
	client.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	// Hand back the last response once retries run out so its status can be mapped.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPRegistry{
		baseURL: base.String(),
		apiKey:  opts.APIKey,
		client:  client,
		logger:  logger,
	}, nil
}

type tournamentResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Game                string    `json:"game"`
	EntryFee            int64     `json:"entry_fee"`
	PrizePool           int64     `json:"prize_pool"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Status              string    `json:"status"`
	StartTime           time.Time `json:"start_time"`
	CreatedBy           string    `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
}

type registerRequest struct {
	AccountID string `json:"account_id"`
	TeamID    string `json:"team_id,omitempty"`
}

type entryResponse struct {
	TournamentID   string    `json:"tournament_id"`
	AccountID      string    `json:"account_id"`
	TeamID         string    `json:"team_id"`
	Status         string    `json:"status"`
	RegistrationID string    `json:"registration_id"`
	JoinedAt       time.Time `json:"joined_at"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetTournament returns fee and capacity information
func (r *HTTPRegistry) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	var resp tournamentResponse
	path := "/api/v1/tournaments/" + url.PathEscape(tournamentID)
	if err := r.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}

	return &entity.Tournament{
		ID:                  resp.ID,
		Title:               resp.Title,
		Game:                resp.Game,
		EntryFee:            resp.EntryFee,
		PrizePool:           resp.PrizePool,
		MaxParticipants:     resp.MaxParticipants,
		CurrentParticipants: resp.CurrentParticipants,
		Status:              entity.TournamentStatus(resp.Status),
		StartTime:           resp.StartTime,
		CreatedBy:           resp.CreatedBy,
		CreatedAt:           resp.CreatedAt,
	}, nil
}

// RegisterParticipant takes a slot for reg.AccountID
func (r *HTTPRegistry) RegisterParticipant(ctx context.Context, reg external.Registration) (*entity.TournamentEntry, error) {
	var resp entryResponse
	path := "/api/v1/tournaments/" + url.PathEscape(reg.TournamentID) + "/participants"
	body := registerRequest{AccountID: reg.AccountID, TeamID: reg.TeamID}
	if err := r.do(ctx, http.MethodPost, path, body, reg.RegistrationID, &resp); err != nil {
		return nil, err
	}

	entry := toEntry(resp)
	if entry.RegistrationID == "" {
		entry.RegistrationID = reg.RegistrationID
	}
	return entry, nil
}

// ListEntries returns every entry held by the account, newest first
func (r *HTTPRegistry) ListEntries(ctx context.Context, accountID string) ([]*entity.TournamentEntry, error) {
	var resp []entryResponse
	path := "/api/v1/participants/" + url.PathEscape(accountID) + "/entries"
	if err := r.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}

	entries := make([]*entity.TournamentEntry, len(resp))
	for i := range resp {
		entries[i] = toEntry(resp[i])
	}
	return entries, nil
}

func toEntry(resp entryResponse) *entity.TournamentEntry {
	status := entity.EntryStatus(resp.Status)
	if status == "" {
		status = entity.EntryActive
	}
	return &entity.TournamentEntry{
		TournamentID:   resp.TournamentID,
		AccountID:      resp.AccountID,
		TeamID:         resp.TeamID,
		Status:         status,
		RegistrationID: resp.RegistrationID,
		JoinedAt:       resp.JoinedAt,
	}
}

func (r *HTTPRegistry) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal registry request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, r.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.logger.Warn("Tournament registry request failed", map[string]any{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return fmt.Errorf("%w: %s %s: %v", errs.ErrRegistryUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode registry response: %v", errs.ErrRegistryUnavailable, err)
		}
		return nil
	}

	return r.statusError(method, path, resp)
}

func (r *HTTPRegistry) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorResponse
	_ = json.Unmarshal(raw, &body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.ErrTournamentNotFound
	case resp.StatusCode == http.StatusConflict && strings.EqualFold(body.Code, codeTournamentFull):
		return errs.ErrTournamentFull
	case resp.StatusCode == http.StatusConflict && strings.EqualFold(body.Code, codeAlreadyJoined):
		return errs.ErrAlreadyJoined
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s returned %d", errs.ErrRegistryUnavailable, method, path, resp.StatusCode)
	}

	r.logger.Error("Unexpected tournament registry response", map[string]any{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"code":        body.Code,
		"message":     body.Message,
	})
	return fmt.Errorf("%w: registry answered %s %s with %d", errs.ErrInternal, method, path, resp.StatusCode)
}

