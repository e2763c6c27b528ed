package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/fragments/data/coin"
	"github.com/code-payments/fragments/pkg/http/web"
)

type coinHandlers struct {
	store coin.Store
}

type coinRequest struct {
	Name     string `json:"name" validate:"required,max=30"`
	Launched *int   `json:"launched" validate:"required,gte=0,lte=32767"`
}

type coinResponse struct {
	Id       int64  `json:"id"`
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Launched int    `json:"launched"`
}

func toCoinResponse(c *coin.Coin) coinResponse {
	return coinResponse{
		Id:       c.Id,
		Ticker:   c.Ticker,
		Name:     c.Name,
		Launched: c.Launched,
	}
}

func toCoinResponses(coins []*coin.Coin) []coinResponse {
	resp := make([]coinResponse, len(coins))
	for i, c := range coins {
		resp[i] = toCoinResponse(c)
	}
	return resp
}

func (h *coinHandlers) register(app *web.App, group string) {
	app.Handle(http.MethodGet, group, "/coins", h.getAll)
	app.Handle(http.MethodGet, group, "/coins/after/:year", h.getLaunchedAfter)
	app.Handle(http.MethodGet, group, "/coins/:ticker", h.getByTicker)
	app.Handle(http.MethodPut, group, "/coins/:ticker", h.create)
	app.Handle(http.MethodPatch, group, "/coins/:ticker", h.update)
	app.Handle(http.MethodDelete, group, "/coins/:ticker", h.delete)
}

func (h *coinHandlers) ping(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.store.Ping(ctx); err != nil {
		return err
	}
	return web.Respond(ctx, w, messageResponse{Message: "PONG"}, http.StatusOK)
}

func (h *coinHandlers) getAll(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	coins, err := h.store.GetAll(ctx)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, toCoinResponses(coins), http.StatusOK)
}

func (h *coinHandlers) getByTicker(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	record, err := h.store.GetByTicker(ctx, coin.NormalizeTicker(web.Param(r, "ticker")))
	if err != nil {
		return coinError(err)
	}
	return web.Respond(ctx, w, toCoinResponse(record), http.StatusOK)
}

func (h *coinHandlers) getLaunchedAfter(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	year, err := strconv.Atoi(web.Param(r, "year"))
	if err != nil {
		return web.NewRequestError(errors.New("Invalid year"), http.StatusBadRequest)
	}

	coins, err := h.store.GetLaunchedAfter(ctx, year)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, toCoinResponses(coins), http.StatusOK)
}

func (h *coinHandlers) create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	record, err := decodeCoin(r)
	if err != nil {
		return err
	}

	if _, err := h.store.Create(ctx, record); err != nil {
		return coinError(err)
	}
	return web.Respond(ctx, w, nil, http.StatusOK)
}

func (h *coinHandlers) update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	record, err := decodeCoin(r)
	if err != nil {
		return err
	}

	if err := h.store.Update(ctx, record); err != nil {
		return coinError(err)
	}
	return web.Respond(ctx, w, toCoinResponse(record), http.StatusOK)
}

func (h *coinHandlers) delete(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.store.Delete(ctx, coin.NormalizeTicker(web.Param(r, "ticker"))); err != nil {
		return err
	}
	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

func decodeCoin(r *http.Request) (*coin.Coin, error) {
	var req coinRequest
	if err := web.Decode(r, &req); err != nil {
		return nil, err
	}

	record := &coin.Coin{
		Ticker:   coin.NormalizeTicker(web.Param(r, "ticker")),
		Name:     req.Name,
		Launched: *req.Launched,
	}
	if err := record.Validate(); err != nil {
		return nil, web.NewRequestError(err, http.StatusBadRequest)
	}
	return record, nil
}

func coinError(err error) error {
	switch err {
	case coin.ErrCoinNotFound:
		return web.NewRequestError(err, http.StatusNotFound)
	case coin.ErrInvalidCoin:
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	return err
}
