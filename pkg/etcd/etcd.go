// Package etcd watches the service's dynamic-config prefix and fires
// registered callbacks on changes, so an operator can re-point the model
// artifact without a restart.
package etcd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/churnlabs/churnserve/pkg/logger"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	basePath          = "/config/"
	configPath        = "/model-config"
	connectionTimeout = 30 * time.Second
)

// Callback receives the changed key (relative to the watch prefix) and its
// new value. Returning an error only logs; the watch keeps running.
type Callback func(key, value string) error

type Watcher struct {
	conn      *clientv3.Client
	basePath  string
	mu        sync.Mutex
	callbacks []Callback
	cancel    context.CancelFunc
}

// New connects to etcd and reads nothing eagerly: values under the prefix are
// delivered through callbacks as they change.
func New(appConfigs *configs.AppConfigs) (*Watcher, error) {
	cfg := appConfigs.Configs
	if cfg.ApplicationName == "" || cfg.ETCD_SERVER == "" {
		return nil, fmt.Errorf("app name or etcd server is not set")
	}

	conn, err := clientv3.New(clientv3.Config{
		Endpoints:           strings.Split(cfg.ETCD_SERVER, ","),
		Username:            cfg.ETCD_USERNAME,
		Password:            cfg.ETCD_PASSWORD,
		DialTimeout:         connectionTimeout,
		DialKeepAliveTime:   connectionTimeout,
		PermitWithoutStream: true,
	})
	if err != nil {
		return nil, err
	}

	return &Watcher{
		conn:     conn,
		basePath: basePath + cfg.ApplicationName + configPath,
	}, nil
}

// RegisterCallback adds a callback fired for every key change under the
// watch prefix.
func (w *Watcher) RegisterCallback(fn Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start begins watching the prefix. Watch events are processed on a single
// goroutine; a panicking callback is recovered and logged.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	watchChan := w.conn.Watch(ctx, w.basePath, clientv3.WithPrefix())

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in etcd watch loop", fmt.Errorf("%v", r))
			}
		}()
		for watchResp := range watchChan {
			for _, event := range watchResp.Events {
				key := strings.TrimPrefix(string(event.Kv.Key), w.basePath+"/")
				value := string(event.Kv.Value)
				logger.Info(fmt.Sprintf("etcd config change on %s", key))
				w.dispatch(key, value)
			}
		}
	}()
	logger.Info(fmt.Sprintf("Watching etcd prefix %s", w.basePath))
}

func (w *Watcher) dispatch(key, value string) {
	w.mu.Lock()
	callbacks := append([]Callback(nil), w.callbacks...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		if err := fn(key, value); err != nil {
			logger.Error(fmt.Sprintf("etcd callback failed for key %s", key), err)
		}
	}
}

func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.conn.Close()
}
