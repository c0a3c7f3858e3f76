package services

import "context"

type queuedTurn struct {
	ctx  context.Context
	turn Turn
}

// Submit queues t for asynchronous handling. Turns of one user are handled
// strictly in submission order by a single goroutine; different users run
// concurrently.
func (o *Orchestrator) Submit(ctx context.Context, t Turn) {
	o.queueMu.Lock()
	defer o.queueMu.Unlock()

	q, draining := o.queues[t.UserID]
	o.queues[t.UserID] = append(q, queuedTurn{ctx: ctx, turn: t})
	if draining {
		return
	}

	o.wg.Add(1)
	go o.drain(t.UserID)
}

func (o *Orchestrator) drain(userID int64) {
	defer o.wg.Done()

	for {
		o.queueMu.Lock()
		q := o.queues[userID]
		if len(q) == 0 {
			delete(o.queues, userID)
			o.queueMu.Unlock()
			return
		}
		next := q[0]
		o.queues[userID] = q[1:]
		o.queueMu.Unlock()

		if err := o.HandleTurn(next.ctx, next.turn); err != nil {
			o.logger.Error(next.ctx, "turn failed", "user_id", userID, "error", err)
		}
	}
}

// Wait blocks until every submitted turn has been handled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
