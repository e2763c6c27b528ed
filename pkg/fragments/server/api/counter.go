package api

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"strconv"

	"github.com/code-payments/fragments/pkg/http/web"
)

func (h *solanaHandlers) initialiseCounter(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	user, err := h.newFundedKeypair(ctx)
	if err != nil {
		return err
	}

	if _, err := h.client.InitializeCounter(ctx, user); err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, addressResponse{Address: encodeKey(user)}, http.StatusOK)
}

func (h *solanaHandlers) getCounter(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	user, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	account, err := h.client.GetCounter(ctx, user.Public().(ed25519.PublicKey))
	if err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, countResponse{Count: strconv.FormatUint(account.Count, 10)}, http.StatusOK)
}

func (h *solanaHandlers) incrementCounter(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	user, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	if _, err := h.client.IncrementCounter(ctx, user); err != nil {
		return programError(err)
	}

	account, err := h.client.GetCounter(ctx, user.Public().(ed25519.PublicKey))
	if err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, newCountResponse{NewCount: strconv.FormatUint(account.Count, 10)}, http.StatusOK)
}
