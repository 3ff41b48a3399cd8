package httpadapter

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"talespin/internal/app/play"
	"talespin/internal/app/wallet"
	"talespin/internal/domain/energy"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func decodeErrorBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body["error"]
}

func TestPlayerID_HeaderAndGuestFallback(t *testing.T) {
	ctx := &app.RequestContext{}
	if got := playerID(ctx); got != guestPlayerID {
		t.Fatalf("guest fallback = %q", got)
	}

	ctx.Request.Header.Set(playerIDHeader, " p1 ")
	if got := playerID(ctx); got != "p1" {
		t.Fatalf("header player id = %q", got)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unsupported_genre", play.ErrUnsupportedGenre, consts.StatusBadRequest, "unsupported_genre"},
		{"invalid_request", play.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{"unknown_sku", energy.ErrUnknownSKU, consts.StatusBadRequest, "bad_request"},
		{"insufficient_energy", energy.ErrInsufficientEnergy, consts.StatusPaymentRequired, "insufficient_energy"},
		{"ads_not_available", energy.ErrAdsNotAvailable, consts.StatusForbidden, "ads_not_available"},
		{"session_dead", play.ErrAlreadyDead, consts.StatusConflict, "session_dead"},
		{"receipt_replay", wallet.ErrReceiptReplay, consts.StatusConflict, "receipt_replay"},
		{"session_not_found", play.ErrSessionNotFound, consts.StatusNotFound, "session_not_found"},
		{"story_not_found", play.ErrStoryNotFound, consts.StatusNotFound, "story_not_found"},
		{"collaborator", play.ErrCollaborator, consts.StatusBadGateway, "collaborator_failure"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &app.RequestContext{}
			writeError(ctx, tc.err)
			if got := ctx.Response.StatusCode(); got != tc.status {
				t.Fatalf("status mismatch: got=%d want=%d", got, tc.status)
			}
			if got := decodeErrorBody(t, ctx)["code"]; got != tc.code {
				t.Fatalf("error code mismatch: got=%q want=%q", got, tc.code)
			}
		})
	}
}

func TestWriteError_DefaultIsOpaque(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("pq: connection refused"))

	if got := ctx.Response.StatusCode(); got != consts.StatusInternalServerError {
		t.Fatalf("status = %d", got)
	}
	body := decodeErrorBody(t, ctx)
	if body["code"] != "internal_error" || body["message"] != "internal error" {
		t.Fatalf("opaque body = %+v", body)
	}
}

func TestWriteError_CooldownCarriesRetryAfter(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, &energy.AdCooldownError{RetryAfter: 7 * time.Minute})

	if got := ctx.Response.StatusCode(); got != consts.StatusTooManyRequests {
		t.Fatalf("status = %d", got)
	}
	body := decodeErrorBody(t, ctx)
	if body["code"] != "ad_cooldown_active" {
		t.Fatalf("code = %v", body["code"])
	}
	if got, ok := body["retry_after_seconds"].(float64); !ok || int(got) != 420 {
		t.Fatalf("retry_after_seconds = %v", body["retry_after_seconds"])
	}

	ctx = &app.RequestContext{}
	writeError(ctx, &energy.DailyAlreadyClaimedError{RetryAfter: 23 * time.Hour})
	body = decodeErrorBody(t, ctx)
	if body["code"] != "daily_already_claimed" {
		t.Fatalf("code = %v", body["code"])
	}
	if got, ok := body["retry_after_seconds"].(float64); !ok || int(got) != 23*3600 {
		t.Fatalf("retry_after_seconds = %v", body["retry_after_seconds"])
	}
}

func TestDecodeJSON(t *testing.T) {
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"action":"look around"}`))
	var req play.TurnRequest
	if err := decodeJSON(ctx, &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Action != "look around" {
		t.Fatalf("action = %q", req.Action)
	}

	ctx = &app.RequestContext{}
	var empty play.TurnRequest
	if err := decodeJSON(ctx, &empty); err != nil {
		t.Fatalf("empty body: %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{`))
	if err := decodeJSON(ctx, &empty); err == nil {
		t.Fatalf("malformed body accepted")
	}
}
