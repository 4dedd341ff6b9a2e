package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdConfig configures the etcd connection.
type EtcdConfig struct {
	// Endpoints is the list of etcd endpoints.
	// Format: ["host1:2379", "host2:2379"]
	Endpoints []string `yaml:"endpoints"`

	// Namespace prefixes every key: /{namespace}/tools/{id}/enabled
	// Default: "toolgate"
	Namespace string `yaml:"namespace"`

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// TLS enables mutual TLS when set.
	TLS *TLSConfig `yaml:"tls"`
}

// EtcdStore keeps one key per tool under a namespace and streams changes
// with a prefix watch.
//
// Thread-safety: All methods are safe for concurrent use.
type EtcdStore struct {
	client    *clientv3.Client
	namespace string

	mu         sync.Mutex
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewEtcdStore connects to etcd and verifies connectivity.
func NewEtcdStore(cfg EtcdConfig) (*EtcdStore, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := cfg.TLS.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		_ = cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return newEtcdStore(cli, cfg.Namespace), nil
}

func newEtcdStore(cli *clientv3.Client, namespace string) *EtcdStore {
	if namespace == "" {
		namespace = "toolgate"
	}
	return &EtcdStore{
		client:     cli,
		namespace:  strings.Trim(namespace, "/"),
		closedChan: make(chan struct{}),
	}
}

// Load returns every flag under the namespace.
func (s *EtcdStore) Load(ctx context.Context) (map[string]bool, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	resp, err := s.client.Get(ctx, s.prefix(), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to load tool flags: %w", err)
	}

	flags := make(map[string]bool, len(resp.Kvs))
	var errs []error
	for _, kv := range resp.Kvs {
		id, ok := s.toolID(string(kv.Key))
		if !ok {
			continue
		}
		enabled, err := parseFlag(string(kv.Value))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid flag for %s: %q", id, kv.Value))
			continue
		}
		flags[id] = enabled
	}
	if len(errs) > 0 {
		return flags, errors.Join(errs...)
	}
	return flags, nil
}

// SetEnabled writes the flag. Watchers see it through the prefix watch.
func (s *EtcdStore) SetEnabled(ctx context.Context, toolID string, enabled bool) error {
	if s.isClosed() {
		return ErrClosed
	}
	if _, err := s.client.Put(ctx, s.key(toolID), formatFlag(enabled)); err != nil {
		return fmt.Errorf("failed to set flag for %s: %w", toolID, err)
	}
	return nil
}

// Watch streams puts under the namespace. Deleted keys are ignored: a tool
// without a flag keeps its current state.
func (s *EtcdStore) Watch(ctx context.Context) (<-chan Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	ch := make(chan Change, 1)
	watchChan := s.client.Watch(ctx, s.prefix(), clientv3.WithPrefix())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				for _, ev := range watchResp.Events {
					if ev.Type != clientv3.EventTypePut {
						continue
					}
					change, ok := s.changeFor(string(ev.Kv.Key), string(ev.Kv.Value))
					if !ok {
						continue
					}
					select {
					case ch <- change:
					case <-ctx.Done():
						return
					case <-s.closedChan:
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// Close stops all watches and closes the etcd client.
func (s *EtcdStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.closedChan)
	s.mu.Unlock()

	s.wg.Wait()

	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *EtcdStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// prefix returns the key prefix of all tool flags.
//
// Format: /namespace/tools/
func (s *EtcdStore) prefix() string {
	return fmt.Sprintf("/%s/tools/", s.namespace)
}

// key constructs the etcd key for a tool flag.
//
// Format: /namespace/tools/id/enabled
func (s *EtcdStore) key(toolID string) string {
	return s.prefix() + toolID + "/enabled"
}

// toolID extracts the tool id from a flag key.
func (s *EtcdStore) toolID(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.prefix())
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/enabled")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (s *EtcdStore) changeFor(key, value string) (Change, bool) {
	id, ok := s.toolID(key)
	if !ok {
		return Change{}, false
	}
	enabled, err := parseFlag(value)
	if err != nil {
		return Change{}, false
	}
	return Change{ToolID: id, Enabled: enabled}, true
}
