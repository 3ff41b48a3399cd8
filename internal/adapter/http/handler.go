package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"talespin/internal/app/imagejob"
	"talespin/internal/app/play"
	"talespin/internal/app/ports"
	"talespin/internal/app/wallet"
	"talespin/internal/domain/energy"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"

// guestPlayerID keeps the whole API usable without onboarding: absent
// header means the shared demo player.
const guestPlayerID = "demo"

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	StartUC  play.StartUseCase
	TurnUC   play.TurnUseCase
	StoryUC  play.StoryUseCase
	WalletUC wallet.UseCase
	Images   *imagejob.Tracker
	Content  ports.ContentProvider
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	adv := s.Group("/api/adventure")
	adv.POST("/start", h.start)
	adv.POST("/turn", h.turn)
	adv.GET("/image_status", h.imageStatus)
	adv.POST("/save", h.save)
	adv.GET("/history", h.history)
	adv.GET("/history/:id", h.historyOne)

	s.GET("/api/player", h.player)
	s.GET("/api/genres", h.genres)

	en := s.Group("/api/energy")
	en.POST("/spend", h.spend)
	en.POST("/claim-daily", h.claimDaily)
	en.POST("/refill", h.refill)

	s.POST("/api/ads/claim", h.claimAd)
	s.POST("/api/purchases/confirm", h.confirmPurchase)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	var body play.StartRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	resp, err := h.StartUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) turn(c context.Context, ctx *app.RequestContext) {
	var body play.TurnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	resp, err := h.TurnUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) imageStatus(c context.Context, ctx *app.RequestContext) {
	sessionID := ctx.Query("session_id")
	jobID := ctx.Query("job_id")
	if sessionID == "" || jobID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "session_id and job_id are required")
		return
	}
	if h.Images == nil {
		ctx.JSON(consts.StatusOK, imagejob.Status{})
		return
	}
	status, err := h.Images.Status(c, sessionID, jobID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, status)
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	var body play.SaveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	resp, err := h.StoryUC.Save(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	stories, err := h.StoryUC.List(c, playerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if stories == nil {
		stories = []ports.StorySummary{}
	}
	ctx.JSON(consts.StatusOK, map[string]any{"stories": stories})
}

func (h Handler) historyOne(c context.Context, ctx *app.RequestContext) {
	snapshot, err := h.StoryUC.Get(c, playerID(ctx), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, snapshot)
}

func (h Handler) player(c context.Context, ctx *app.RequestContext) {
	resp, err := h.WalletUC.Profile(c, playerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) genres(c context.Context, ctx *app.RequestContext) {
	genres, err := h.Content.Genres(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"genres": genres})
}

func (h Handler) spend(c context.Context, ctx *app.RequestContext) {
	var body wallet.SpendRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	snap, err := h.WalletUC.Spend(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"energy": snap})
}

func (h Handler) claimDaily(c context.Context, ctx *app.RequestContext) {
	added, snap, err := h.WalletUC.ClaimDaily(c, playerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"added": added, "energy": snap})
}

func (h Handler) claimAd(c context.Context, ctx *app.RequestContext) {
	added, snap, err := h.WalletUC.ClaimAd(c, playerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"added": added, "energy": snap})
}

func (h Handler) confirmPurchase(c context.Context, ctx *app.RequestContext) {
	var body wallet.PurchaseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	resp, err := h.WalletUC.ConfirmPurchase(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) refill(c context.Context, ctx *app.RequestContext) {
	var body wallet.RefillRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.PlayerID = playerID(ctx)
	snap, err := h.WalletUC.Refill(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"energy": snap})
}

func (h Handler) kpi(c context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		ctx.JSON(consts.StatusOK, map[string]any{})
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func playerID(ctx *app.RequestContext) string {
	id := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if id == "" {
		return guestPlayerID
	}
	return id
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, play.ErrUnsupportedGenre):
		writeErrorBody(ctx, consts.StatusBadRequest, "unsupported_genre", err.Error())
	case errors.Is(err, play.ErrNoContentForGenre):
		writeErrorBody(ctx, consts.StatusBadRequest, "no_content_for_genre", err.Error())
	case errors.Is(err, play.ErrInvalidRequest),
		errors.Is(err, wallet.ErrInvalidRequest),
		errors.Is(err, energy.ErrUnknownSKU):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, energy.ErrInsufficientEnergy):
		writeErrorBody(ctx, consts.StatusPaymentRequired, "insufficient_energy", err.Error())
	case errors.Is(err, energy.ErrAdsNotAvailable):
		writeErrorBody(ctx, consts.StatusForbidden, "ads_not_available", err.Error())
	case errors.Is(err, energy.ErrDailyAlreadyClaimed):
		writeCooldownError(ctx, "daily_already_claimed", err)
	case errors.Is(err, energy.ErrAdCooldownActive):
		writeCooldownError(ctx, "ad_cooldown_active", err)
	case errors.Is(err, play.ErrAlreadyDead):
		writeErrorBody(ctx, consts.StatusConflict, "session_dead", err.Error())
	case errors.Is(err, wallet.ErrReceiptReplay):
		writeErrorBody(ctx, consts.StatusConflict, "receipt_replay", err.Error())
	case errors.Is(err, play.ErrSessionNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, play.ErrStoryNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "story_not_found", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, play.ErrCollaborator):
		writeErrorBody(ctx, consts.StatusBadGateway, "collaborator_failure", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeCooldownError attaches the remaining wait so clients can show a
// countdown instead of hammering the endpoint.
func writeCooldownError(ctx *app.RequestContext, code string, err error) {
	retryAfter := 0
	var dailyErr *energy.DailyAlreadyClaimedError
	var adErr *energy.AdCooldownError
	switch {
	case errors.As(err, &dailyErr):
		retryAfter = int(dailyErr.RetryAfter.Seconds())
	case errors.As(err, &adErr):
		retryAfter = int(adErr.RetryAfter.Seconds())
	}
	ctx.JSON(consts.StatusTooManyRequests, map[string]any{
		"error": map[string]any{
			"code":                code,
			"message":             err.Error(),
			"retry_after_seconds": retryAfter,
		},
	})
}
