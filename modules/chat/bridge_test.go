package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_RelayWithoutConnectionDrops(t *testing.T) {
	b := newBridge(time.Second)
	assert.False(t, b.Connected())
	assert.False(t, b.Relay("message", map[string]any{"text": "hi"}))
}

func TestBridge_CloseWithoutConnectIsSafe(t *testing.T) {
	b := newBridge(time.Second)
	b.Close()
	b.Close()
	assert.False(t, b.Connected())
}

func TestBridge_ConnectRejectsMalformedURL(t *testing.T) {
	b := newBridge(time.Second)
	err := b.Connect(context.Background(), "://nope", "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse relay URL")
}

func TestBridge_ConnectTimesOutAgainstDeadEndpoint(t *testing.T) {
	b := newBridge(300 * time.Millisecond)
	defer b.Close()

	err := b.Connect(context.Background(), "http://127.0.0.1:1", "/")
	require.Error(t, err)
	assert.False(t, b.Connected())
}
