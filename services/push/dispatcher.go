package push

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/techhire/techhire-api/model"
)

// Result aggregates the outcome of one dispatch invocation.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// DeliveryResult carries one subscription's outcome back to the store. The
// store applies the whole slice in a single transaction after the dispatch
// loop finishes.
type DeliveryResult struct {
	SubscriptionID uint
	Delivered      bool
	DeliveredAt    time.Time
	Deactivate     bool
}

// SubscriptionSource is the slice of the subscription store the dispatcher
// needs: target resolution before the loop, state reconciliation after it.
type SubscriptionSource interface {
	FindActiveByBatches(ctx context.Context, batches []string) ([]model.PushSubscription, error)
	ApplyDeliveryResults(ctx context.Context, results []DeliveryResult) error
}

// Dispatcher fans a payload out to every active subscription in a target
// batch set, one delivery attempt per subscription, and reconciles
// subscription state from the outcomes.
type Dispatcher struct {
	store  SubscriptionSource
	sender Sender
	keys   VAPIDKeys
	runner *Runner
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(store SubscriptionSource, sender Sender, keys VAPIDKeys, runner *Runner) *Dispatcher {
	return &Dispatcher{
		store:  store,
		sender: sender,
		keys:   keys,
		runner: runner,
	}
}

// Dispatch delivers payload to every active subscription whose batch is in
// batches; an empty set means broadcast to all active subscriptions.
//
// Outcome classification per subscription:
//   - success: counted, last-notified timestamp recorded
//   - terminal (endpoint gone/expired): counted as failed, subscription
//     marked for deactivation
//   - anything else: counted as failed, subscription left active
//
// State mutations are persisted in one commit after the loop, so a crash
// mid-loop loses only undelivered notifications. Dispatch never returns an
// error: the triggering action must not fail because delivery did.
func (d *Dispatcher) Dispatch(ctx context.Context, payload Payload, batches []string) Result {
	if d.keys.PrivateKey == "" {
		log.Println("push: VAPID private key not configured, skipping dispatch")
		return Result{}
	}

	subs, err := d.store.FindActiveByBatches(ctx, batches)
	if err != nil {
		log.Printf("push: resolve subscriptions: %v", err)
		return Result{}
	}
	if len(subs) == 0 {
		log.Println("push: no subscribers for dispatch")
		return Result{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("push: encode payload: %v", err)
		return Result{}
	}

	var res Result
	results := make([]DeliveryResult, 0, len(subs))
	for i := range subs {
		sub := &subs[i]

		err := d.sender.Send(ctx, sub.Credential, body)
		switch {
		case err == nil:
			res.Sent++
			results = append(results, DeliveryResult{
				SubscriptionID: sub.ID,
				Delivered:      true,
				DeliveredAt:    time.Now().UTC(),
			})
		case errors.Is(err, ErrEndpointGone):
			res.Failed++
			results = append(results, DeliveryResult{
				SubscriptionID: sub.ID,
				Deactivate:     true,
			})
			log.Printf("push: endpoint gone, deactivating subscription %d", sub.ID)
		default:
			res.Failed++
			log.Printf("push: delivery to subscription %d failed: %v", sub.ID, err)
		}
	}

	if err := d.store.ApplyDeliveryResults(ctx, results); err != nil {
		log.Printf("push: persist delivery results: %v", err)
	}

	log.Printf("push: dispatch complete, sent=%d failed=%d", res.Sent, res.Failed)
	return res
}

// DispatchAsync submits the dispatch to the background runner so the
// triggering request returns immediately. Delivery runs on the runner's own
// context, independent of the request's transaction and lifetime.
func (d *Dispatcher) DispatchAsync(payload Payload, batches []string) {
	d.runner.Submit(func(ctx context.Context) {
		d.Dispatch(ctx, payload, batches)
	})
}
