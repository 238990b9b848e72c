package chat

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/modshell/modshell/internal/ctxlog"
)

// Bridge relays sent messages to an external socket.io endpoint. The chat
// screens keep working without one: an unconnected bridge simply reports
// every relay as not sent.
type Bridge struct {
	mu          sync.Mutex
	io          *socket.Socket
	isConnected atomic.Bool
	timeout     time.Duration
}

func newBridge(timeout time.Duration) *Bridge {
	return &Bridge{timeout: timeout}
}

// Connect dials the relay endpoint and waits for the handshake to
// complete, up to the bridge timeout.
func (b *Bridge) Connect(ctx context.Context, rawURL, namespace string) error {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "namespace", namespace)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse relay URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		b.isConnected.Store(true)
		logger.Info("Chat relay connected.", "sid", io.Id())
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("relay connection failed: %v", errs[0])
		}
		select {
		case done <- err:
		default:
		}
	})
	io.On(types.EventName("disconnect"), func(...any) {
		b.isConnected.Store(false)
	})

	b.mu.Lock()
	b.io = io
	b.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	io.Connect()

	select {
	case <-opCtx.Done():
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		return err
	}
}

// Connected reports whether the relay handshake has completed.
func (b *Bridge) Connected() bool {
	return b.isConnected.Load()
}

// Relay emits the event to the endpoint and reports whether it was sent.
// Without a connected socket the payload is dropped.
func (b *Bridge) Relay(event string, payload any) bool {
	b.mu.Lock()
	io := b.io
	b.mu.Unlock()

	if io == nil || !b.isConnected.Load() {
		return false
	}
	io.Emit(event, payload)
	return true
}

// Close disconnects the relay. Safe to call without a prior Connect.
func (b *Bridge) Close() {
	b.mu.Lock()
	io := b.io
	b.io = nil
	b.mu.Unlock()

	if io != nil {
		io.Disconnect()
	}
	b.isConnected.Store(false)
}
