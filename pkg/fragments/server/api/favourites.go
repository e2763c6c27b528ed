package api

import (
	"context"
	"net/http"

	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
	"github.com/code-payments/fragments/pkg/http/web"
)

type favouriteHandlers struct {
	store favourite.Store
}

type favouriteBody struct {
	FavouriteCoin string `json:"favourite_coin" validate:"required"`
}

func (h *favouriteHandlers) ping(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pong, err := h.store.Ping(ctx)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, messageResponse{Message: pong}, http.StatusOK)
}

func (h *favouriteHandlers) get(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	value, err := h.store.Get(ctx, web.Param(r, "namespace"))
	if err == favourite.ErrFavouriteNotFound {
		return web.NewRequestError(err, http.StatusNotFound)
	} else if err != nil {
		return err
	}
	return web.Respond(ctx, w, favouriteBody{FavouriteCoin: value}, http.StatusOK)
}

// put serves both PUT and PATCH, which overwrite the value alike
func (h *favouriteHandlers) put(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req favouriteBody
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	if err := h.store.Put(ctx, web.Param(r, "namespace"), req.FavouriteCoin); err != nil {
		return err
	}
	return web.Respond(ctx, w, nil, http.StatusOK)
}

func (h *favouriteHandlers) delete(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.store.Delete(ctx, web.Param(r, "namespace")); err != nil {
		return err
	}
	return web.Respond(ctx, w, nil, http.StatusNoContent)
}
