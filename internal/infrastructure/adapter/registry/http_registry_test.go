package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) *HTTPRegistry {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	r, err := NewHTTPRegistry(Options{
		BaseURL:      srv.URL + "/",
		APIKey:       "secret",
		Timeout:      2 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestHTTPRegistry_GetTournament(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes the tournament", func(t *testing.T) {
		r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/v1/tournaments/t-1", req.URL.Path)
			assert.Equal(t, "secret", req.Header.Get("x-api-key"))
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "t-1", "title": "Friday Cup", "entry_fee": 500,
				"max_participants": 16, "current_participants": 15, "status": "registration_open",
			})
		})

		got, err := r.GetTournament(ctx, "t-1")

		require.NoError(t, err)
		assert.Equal(t, int64(500), got.EntryFee)
		assert.Equal(t, 1, got.SlotsLeft())
	})

	t.Run("Unknown tournament", func(t *testing.T) {
		r := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found"})
		})

		_, err := r.GetTournament(ctx, "t-404")

		assert.ErrorIs(t, err, errs.ErrTournamentNotFound)
	})

	t.Run("Server errors are retried then reported as unavailable", func(t *testing.T) {
		var calls atomic.Int32
		r := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := r.GetTournament(ctx, "t-1")

		assert.ErrorIs(t, err, errs.ErrRegistryUnavailable)
		assert.True(t, errs.IsRetryable(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("A transient failure is absorbed by a retry", func(t *testing.T) {
		var calls atomic.Int32
		r := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "t-1", "max_participants": 4})
		})

		got, err := r.GetTournament(ctx, "t-1")

		require.NoError(t, err)
		assert.Equal(t, "t-1", got.ID)
	})

	t.Run("Cancelled context is not a registry failure", func(t *testing.T) {
		r := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": "t-1"})
		})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := r.GetTournament(cancelled, "t-1")

		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestHTTPRegistry_RegisterParticipant(t *testing.T) {
	ctx := context.Background()
	reg := external.Registration{TournamentID: "t-1", AccountID: "acc-1", TeamID: "team-7", RegistrationID: "saga-1:1"}

	t.Run("Sends the registration id as idempotency key", func(t *testing.T) {
		r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/api/v1/tournaments/t-1/participants", req.URL.Path)
			assert.Equal(t, "saga-1:1", req.Header.Get("Idempotency-Key"))

			var body registerRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, registerRequest{AccountID: "acc-1", TeamID: "team-7"}, body)

			writeJSON(w, http.StatusCreated, map[string]any{
				"tournament_id": "t-1", "account_id": "acc-1", "team_id": "team-7",
			})
		})

		entry, err := r.RegisterParticipant(ctx, reg)

		require.NoError(t, err)
		assert.Equal(t, "saga-1:1", entry.RegistrationID)
		assert.Equal(t, "active", string(entry.Status))
	})

	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"Full", http.StatusConflict, codeTournamentFull, errs.ErrTournamentFull},
		{"Already joined", http.StatusConflict, codeAlreadyJoined, errs.ErrAlreadyJoined},
		{"Not found", http.StatusNotFound, "", errs.ErrTournamentNotFound},
		{"Unexpected conflict", http.StatusConflict, "something_else", errs.ErrInternal},
		{"Bad request", http.StatusBadRequest, "", errs.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, errorResponse{Code: tt.code, Message: "nope"})
			})

			_, err := r.RegisterParticipant(ctx, reg)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPRegistry_ListEntries(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/v1/participants/acc-1/entries", req.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"tournament_id": "t-2", "account_id": "acc-1", "status": "winner"},
			{"tournament_id": "t-1", "account_id": "acc-1"},
		})
	})

	entries, err := r.ListEntries(context.Background(), "acc-1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "winner", string(entries[0].Status))
	assert.Equal(t, "t-1", entries[1].TournamentID)
}

func TestNewHTTPRegistry_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPRegistry(Options{BaseURL: "registry.local"}, logger.NewNoopLogger())

	assert.Error(t, err)
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"url", "http://x", "error", errors.New("boom"), "dangling"})

	assert.Equal(t, "http://x", fields["url"])
	assert.Equal(t, "boom", fields["error"])
	assert.Contains(t, fields, "dangling")
	assert.Equal(t, "tournament_registry_client", fields["component"])
}
