package api

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"strconv"

	"github.com/mr-tron/base58"

	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/pointer"
	"github.com/code-payments/fragments/pkg/solana/round"
)

func (h *solanaHandlers) initialiseRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.newFundedKeypair(ctx)
	if err != nil {
		return err
	}

	slot, err := h.client.GetSlot(ctx)
	if err != nil {
		return err
	}
	startSlot := slot + program.RoundStartSlotOffset

	if _, err := h.client.InitialiseRound(ctx, authority, startSlot); err != nil {
		return programError(err)
	}

	return web.Respond(ctx, w, initialiseRoundResponse{
		Address:   encodeKey(authority),
		StartSlot: strconv.FormatUint(startSlot, 10),
	}, http.StatusOK)
}

func (h *solanaHandlers) getRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	account, err := h.client.GetRound(ctx, authority.Public().(ed25519.PublicKey))
	if err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, toRoundResponse(account), http.StatusOK)
}

// activateRound activates the round with a newly funded payer, which is
// recorded as the activator. Activation before the start slot is rejected by
// the program.
func (h *solanaHandlers) activateRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	payer, err := h.newFundedKeypair(ctx)
	if err != nil {
		return err
	}

	if _, err := h.client.ActivateRound(ctx, authority.Public().(ed25519.PublicKey), payer); err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, nil, http.StatusOK)
}

func (h *solanaHandlers) completeRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.getSigner(ctx, r)
	if err != nil {
		return err
	}

	if _, err := h.client.CompleteRound(ctx, authority); err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, nil, http.StatusOK)
}

func toRoundResponse(account *round.RoundAccount) roundResponse {
	resp := roundResponse{
		StartSlot:   strconv.FormatUint(account.StartSlot, 10),
		Authority:   base58.Encode(account.Authority),
		ActivatedAt: pointer.Map(account.ActivatedAt, formatSlot),
		CompletedAt: pointer.Map(account.CompletedAt, formatSlot),
	}
	if account.ActivatedBy != nil {
		resp.ActivatedBy = pointer.String(base58.Encode(account.ActivatedBy))
	}
	return resp
}

func formatSlot(slot uint64) string {
	return strconv.FormatUint(slot, 10)
}
