package syncbridge

import (
	"context"

	"github.com/avmartell/stockroom-backend/pkg/enums"
	"github.com/avmartell/stockroom-backend/pkg/logger"
	"github.com/avmartell/stockroom-backend/pkg/models"
)

const defaultQueueDepth = 16

// Snapshot is one full state to mirror. Every push uploads whole
// collections, so only the newest pending snapshot matters.
type Snapshot struct {
	Items  []models.Item
	Groups []models.Group
}

// Dispatcher decouples state commits from the network. Enqueue never
// blocks: when the queue is full the oldest pending snapshot is dropped,
// since the newer one supersedes it anyway.
type Dispatcher struct {
	gateway *Gateway
	log     *logger.Logger
	queue   chan Snapshot
}

// NewDispatcher builds a dispatcher over the gateway. queueDepth <= 0
// selects the default.
func NewDispatcher(gateway *Gateway, queueDepth int, log *logger.Logger) *Dispatcher {
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	return &Dispatcher{
		gateway: gateway,
		log:     log,
		queue:   make(chan Snapshot, queueDepth),
	}
}

// Enqueue schedules a snapshot for upload and returns immediately.
func (d *Dispatcher) Enqueue(snap Snapshot) {
	for {
		select {
		case d.queue <- snap:
			return
		default:
		}
		select {
		case <-d.queue:
		default:
		}
	}
}

// Run drains the queue until ctx is cancelled. Upload failures are
// logged and dropped; the local cache remains the source of truth.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-d.queue:
			d.push(ctx, snap)
		}
	}
}

func (d *Dispatcher) push(ctx context.Context, snap Snapshot) {
	if err := d.gateway.PushItems(ctx, snap.Items); err != nil {
		d.log.Error(d.log.WithSyncAction(ctx, enums.SyncActionSaveItems.String()),
			"pushing items to remote failed", err)
	}
	if err := d.gateway.PushGroups(ctx, snap.Groups); err != nil {
		d.log.Error(d.log.WithSyncAction(ctx, enums.SyncActionSaveGroups.String()),
			"pushing groups to remote failed", err)
	}
}
