package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNoApplication(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, fromContext(ctx))
	assert.Nil(t, fromContext(NewContext(ctx, nil)))

	// Recording without an application is a no-op
	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestTraceMethodCall_NoTransaction(t *testing.T) {
	tracer := TraceMethodCall(context.Background(), "component", "Method")
	assert.Nil(t, tracer)

	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("boom"))
	tracer.End()
}

func TestForwardedMessage(t *testing.T) {
	entry := logrus.NewEntry(logrus.StandardLogger())
	entry.Message = "request failed"
	assert.Equal(t, "request failed", forwardedMessage(entry))

	entry = entry.WithError(errors.New("boom")).WithField("method", "Airdrop")
	entry.Message = "request failed"
	assert.Equal(t, `message="request failed", error="boom", data={"method":"Airdrop"}`, forwardedMessage(entry))
}
