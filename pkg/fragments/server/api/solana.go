package api

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/solana"
)

type solanaHandlers struct {
	log      *logrus.Entry
	keypairs keypair.Store
	client   *program.Client
}

func (h *solanaHandlers) getBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := parseAddress(r)
	if err != nil {
		return err
	}

	balance, err := h.client.GetBalance(ctx, address)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, balanceResponse{Balance: strconv.FormatUint(balance, 10)}, http.StatusOK)
}

func (h *solanaHandlers) airdrop(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := parseAddress(r)
	if err != nil {
		return err
	}

	sig, err := h.client.Airdrop(ctx, address, program.DefaultAirdropAmount)
	if err != nil {
		return programError(err)
	}
	return web.Respond(ctx, w, signatureResponse{Signature: sig.String()}, http.StatusOK)
}

func (h *solanaHandlers) createKeypair(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	key, err := h.newKeypair(ctx)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, addressResponse{Address: encodeKey(key)}, http.StatusOK)
}

// newKeypair generates and stores a signing key
func (h *solanaHandlers) newKeypair(ctx context.Context) (ed25519.PrivateKey, error) {
	key, err := program.GenerateKeypair()
	if err != nil {
		return nil, err
	}

	if err := h.keypairs.Put(ctx, key.Public().(ed25519.PublicKey), key); err != nil {
		return nil, err
	}
	return key, nil
}

// newFundedKeypair generates and stores a signing key, and airdrops it enough
// to pay for transactions and rent
func (h *solanaHandlers) newFundedKeypair(ctx context.Context) (ed25519.PrivateKey, error) {
	key, err := h.newKeypair(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := h.client.Airdrop(ctx, key.Public().(ed25519.PublicKey), program.DefaultAirdropAmount); err != nil {
		h.log.WithError(err).WithField("address", encodeKey(key)).Warn("failed to fund new keypair")
		return nil, programError(err)
	}
	return key, nil
}

// getSigner loads the stored key for the address route parameter
func (h *solanaHandlers) getSigner(ctx context.Context, r *http.Request) (ed25519.PrivateKey, error) {
	address, err := parseAddress(r)
	if err != nil {
		return nil, err
	}

	key, err := h.keypairs.Get(ctx, address)
	if err != nil {
		return nil, programError(err)
	}
	return key, nil
}

func parseAddress(r *http.Request) (ed25519.PublicKey, error) {
	address, err := solana.ParseAddress(web.Param(r, "address"))
	if err != nil {
		return nil, web.NewRequestError(errInvalidAddress, http.StatusBadRequest)
	}
	return address, nil
}

func encodeKey(key ed25519.PrivateKey) string {
	return base58.Encode(key.Public().(ed25519.PublicKey))
}
