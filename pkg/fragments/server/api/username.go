package api

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/http/web"
)

func (h *solanaHandlers) initialiseUsername(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req usernameRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	authority, err := h.newFundedKeypair(ctx)
	if err != nil {
		return err
	}

	if _, err := h.client.InitializeUsername(ctx, authority, req.Username); err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, addressResponse{Address: encodeKey(authority)}, http.StatusOK)
}

func (h *solanaHandlers) getUsername(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	account, err := h.client.GetUserAccount(ctx, authority.Public().(ed25519.PublicKey))
	if err != nil {
		return programError(err)
	}

	history := account.RecentHistory
	if history == nil {
		history = []string{}
	}

	return web.Respond(ctx, w, userAccountResponse{
		Username:              account.Username,
		ChangeCount:           strconv.FormatUint(account.ChangeCount, 10),
		UsernameRecentHistory: history,
	}, http.StatusOK)
}

func (h *solanaHandlers) updateUsername(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	var req usernameRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	if _, err := h.client.UpdateUsername(ctx, authority, req.Username); err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, nil, http.StatusOK)
}

func (h *solanaHandlers) getUsernameRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	changeIndex, err := strconv.ParseUint(web.Param(r, "changeIndex"), 10, 64)
	if err != nil {
		return web.NewRequestError(errors.New("Invalid change index"), http.StatusBadRequest)
	}

	record, err := h.client.GetUsernameRecord(ctx, authority.Public().(ed25519.PublicKey), changeIndex)
	if err != nil {
		return programError(err)
	}

	return web.Respond(ctx, w, usernameRecordResponse{
		OldUsername: record.OldUsername,
		ChangeIndex: strconv.FormatUint(record.ChangeIndex, 10),
		Authority:   base58.Encode(record.Authority),
	}, http.StatusOK)
}
