// internal/reminder/dispatcher.go
package reminder

import (
	"context"
	"log"
	"time"
)

// Notifier delivers one reminder task, best effort.
type Notifier interface {
	Deliver(ctx context.Context, task Task) error
}

// Dispatcher decouples reminder computation from delivery: Submit never
// blocks and never reports delivery results, so a scheduler tick returns
// promptly regardless of how slow the mail server is. Delivery failures
// surface through logs only.
type Dispatcher struct {
	tasks    chan Task
	notifier Notifier
}

func NewDispatcher(notifier Notifier, buffer int) *Dispatcher {
	return &Dispatcher{
		tasks:    make(chan Task, buffer),
		notifier: notifier,
	}
}

// Start launches the delivery worker. It drains until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Println("🛑 [DISPATCH] Worker stopped")
				return
			case task := <-d.tasks:
				deliveryCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := d.notifier.Deliver(deliveryCtx, task); err != nil {
					log.Printf("⚠️ [DISPATCH] %s reminder for user %s failed: %v", task.Kind, task.UserID, err)
				} else {
					log.Printf("✅ [DISPATCH] %s reminder delivered for user %s", task.Kind, task.UserID)
				}
				cancel()
			}
		}
	}()
}

// Submit queues a task for delivery. A full queue drops the task with a log
// line; a dropped reminder is picked up again naturally on a later day.
func (d *Dispatcher) Submit(task Task) {
	select {
	case d.tasks <- task:
		log.Printf("📨 [DISPATCH] Queued %s reminder for user %s", task.Kind, task.UserID)
	default:
		log.Printf("❌ [DISPATCH] Queue full, dropping %s reminder for user %s", task.Kind, task.UserID)
	}
}
