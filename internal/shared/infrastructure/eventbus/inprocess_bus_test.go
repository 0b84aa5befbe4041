package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBus_DeliverySubscribedKeyOnly(t *testing.T) {
	bus := NewInProcessBus(nil)

	var got []string
	bus.Subscribe("digest.generated", func(_ context.Context, key string, payload []byte) error {
		got = append(got, string(payload))
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "digest.generated", []byte("one")))
	require.NoError(t, bus.Publish(context.Background(), "rules.updated", []byte("other")))

	assert.Equal(t, []string{"one"}, got)
}

func TestInProcessBus_AllHandlersRunDespiteErrors(t *testing.T) {
	bus := NewInProcessBus(nil)

	calls := 0
	bus.Subscribe("digest.generated", func(context.Context, string, []byte) error {
		calls++
		return errors.New("boom")
	})
	bus.Subscribe("digest.generated", func(context.Context, string, []byte) error {
		calls++
		return nil
	})

	// handler errors never fail the publish in local mode
	require.NoError(t, bus.Publish(context.Background(), "digest.generated", nil))
	assert.Equal(t, 2, calls)
}
