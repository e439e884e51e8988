package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConnectionIsPooledByName(t *testing.T) {
	first := NewConnection("pool-test", "amqp://localhost", []string{"daily-meals"})
	second := NewConnection("pool-test", "amqp://elsewhere", nil)

	assert.Same(t, first, second)
	assert.Same(t, first, GetConnection("pool-test"))
	assert.Nil(t, GetConnection("missing"))
	assert.Equal(t, []string{"daily-meals"}, first.Queues)
}

func TestPublishWithoutChannel(t *testing.T) {
	c := NewConnection("publish-test", "amqp://localhost", nil)
	assert.ErrorIs(t, c.Publish("daily-meals", map[string]string{"date": "2024-01-01"}), ErrNotConnected)
	assert.NoError(t, c.Close())
}
