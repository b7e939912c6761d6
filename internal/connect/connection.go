package connect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// ErrMissingURI is returned when no MongoDB URI was configured.
var ErrMissingURI = errors.New("MONGODB_URI is not set")

// DialFunc opens a MongoDB client. Replaceable in tests.
type DialFunc func(ctx context.Context) (*mongo.Client, error)

// Manager hands out a single process-wide MongoDB client. The first caller
// dials; concurrent first callers share that one in-flight attempt through a
// singleflight group. A failed attempt caches nothing, so the next call
// retries from scratch.
type Manager struct {
	uri       string
	dial      DialFunc
	onConnect func(ctx context.Context, client *mongo.Client) error

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

func NewManager(uri string) *Manager {
	m := &Manager{uri: uri}
	m.dial = m.mongoDial
	return m
}

// NewManagerWithDialer is used by tests to inject a fake dialer.
func NewManagerWithDialer(uri string, dial DialFunc) *Manager {
	return &Manager{uri: uri, dial: dial}
}

// OnConnect registers a hook that runs after every successful dial, before
// the client is cached and handed out. A hook failure discards the dialed
// client so the next call retries from scratch. Must be set before the
// first Client call.
func (m *Manager) OnConnect(hook func(ctx context.Context, client *mongo.Client) error) {
	m.onConnect = hook
}

// Client returns the cached client, dialing it on first use. Safe to call
// concurrently from any number of in-flight requests.
func (m *Manager) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	if m.uri == "" {
		return nil, ErrMissingURI
	}

	v, err, _ := m.group.Do("mongodb", func() (interface{}, error) {
		// A previous flight may have populated the cache while we waited.
		m.mu.RLock()
		cached := m.client
		m.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		dialed, err := m.dial(ctx)
		if err != nil {
			return nil, err
		}

		if m.onConnect != nil {
			if err := m.onConnect(ctx, dialed); err != nil {
				_ = dialed.Disconnect(ctx)
				return nil, err
			}
		}

		m.mu.Lock()
		m.client = dialed
		m.mu.Unlock()
		return dialed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client), nil
}

func (m *Manager) mongoDial(ctx context.Context) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	return client, nil
}

// Disconnect closes the cached client, if any. Called once at shutdown.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %v", err)
	}
	return nil
}

func CloudinaryCredentials(cloudName, apiKey, apiSecret string) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(
		cloudName,
		apiKey,
		apiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %v", err)
	}
	return cld, nil
}
