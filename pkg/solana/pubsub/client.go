package pubsub

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/solana"
)

const (
	methodSignatureSubscribe    = "signatureSubscribe"
	methodSignatureUnsubscribe  = "signatureUnsubscribe"
	methodSignatureNotification = "signatureNotification"
)

var (
	ErrSubscriptionFailed = errors.New("subscription failed")
	ErrConnectionClosed   = errors.New("connection closed")
)

// SignatureNotification is delivered once the subscribed signature reaches
// the requested commitment.
type SignatureNotification struct {
	Slot uint64

	// Err is set when the transaction landed but failed
	Err *solana.TransactionError
}

// Client provides push notifications from the Solana websocket API.
//
// Reference: https://docs.solana.com/api/websocket
type Client interface {
	// WaitForSignature subscribes to sig and blocks until its notification
	// arrives or ctx is done. The subscription is removed before returning.
	WaitForSignature(ctx context.Context, sig solana.Signature, commitment solana.Commitment) (*SignatureNotification, error)
}

type client struct {
	log      *logrus.Entry
	endpoint string
	dialer   *websocket.Dialer
	nextID   uint64
}

// New returns a client that opens a websocket connection to endpoint per
// subscription.
func New(endpoint string) Client {
	return &client{
		log:      logrus.StandardLogger().WithField("type", "solana/pubsub"),
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
	}
}

type request struct {
	Version string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	ID     *uint64         `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Params *struct {
		Subscription uint64 `json:"subscription"`
		Result       struct {
			Context struct {
				Slot uint64 `json:"slot"`
			} `json:"context"`
			Value json.RawMessage `json:"value"`
		} `json:"result"`
	} `json:"params"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) WaitForSignature(ctx context.Context, sig solana.Signature, commitment solana.Commitment) (*SignatureNotification, error) {
	log := c.log.WithFields(logrus.Fields{
		"method":    "WaitForSignature",
		"signature": sig.String(),
	})

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial websocket endpoint")
	}

	// Closing the connection unblocks any pending read once ctx is done
	var closeOnce sync.Once
	closeConn := func() {
		closeOnce.Do(func() {
			conn.Close()
		})
	}
	defer closeConn()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()

	subscribeID := atomic.AddUint64(&c.nextID, 1)
	err = conn.WriteJSON(request{
		Version: "2.0",
		ID:      subscribeID,
		Method:  methodSignatureSubscribe,
		Params:  []interface{}{base58.Encode(sig[:]), commitment},
	})
	if err != nil {
		return nil, c.contextError(ctx, errors.Wrap(err, "failed to send subscription request"))
	}

	var subscription uint64
	var subscribed bool
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			return nil, c.contextError(ctx, errors.Wrap(ErrConnectionClosed, err.Error()))
		}

		switch {
		case resp.ID != nil && *resp.ID == subscribeID:
			if resp.Error != nil {
				return nil, errors.Wrapf(ErrSubscriptionFailed, "%d: %s", resp.Error.Code, resp.Error.Message)
			}
			if err := json.Unmarshal(resp.Result, &subscription); err != nil {
				return nil, errors.Wrap(err, "invalid subscription id")
			}
			subscribed = true
			log.WithField("subscription", subscription).Trace("subscribed")
		case resp.Method == methodSignatureNotification && resp.Params != nil:
			if !subscribed || resp.Params.Subscription != subscription {
				continue
			}

			notification, ok, err := parseSignatureNotification(resp.Params.Result.Context.Slot, resp.Params.Result.Value)
			if err != nil {
				return nil, err
			}
			if !ok {
				// receivedSignature notifications precede the one we want
				continue
			}

			// The node drops signature subscriptions after the first
			// notification, so this is best effort.
			_ = conn.WriteJSON(request{
				Version: "2.0",
				ID:      atomic.AddUint64(&c.nextID, 1),
				Method:  methodSignatureUnsubscribe,
				Params:  []interface{}{subscription},
			})

			return notification, nil
		}
	}
}

func (c *client) contextError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func parseSignatureNotification(slot uint64, raw json.RawMessage) (*SignatureNotification, bool, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, errors.Wrap(err, "invalid notification value")
	}

	fields, ok := value.(map[string]interface{})
	if !ok {
		return nil, false, nil
	}

	notification := &SignatureNotification{Slot: slot}

	txErr, ok := fields["err"]
	if !ok || txErr == nil {
		return notification, true, nil
	}

	parsed, err := solana.ParseTransactionError(txErr)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to parse transaction error")
	}
	notification.Err = parsed

	return notification, true, nil
}
