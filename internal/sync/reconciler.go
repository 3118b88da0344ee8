// internal/sync/reconciler.go
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"mycorner-service/internal/identity"

	"golang.org/x/time/rate"
)

// MirrorStore is the slice of the user store the reconciler needs.
type MirrorStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	DeleteUser(ctx context.Context, userID string) error
}

// IdentityChecker resolves a user id to an existence outcome at the provider.
type IdentityChecker interface {
	CheckUser(ctx context.Context, userID string) identity.Outcome
}

// Result reports what one reconciliation run did.
type Result struct {
	Checked int `json:"checked"`
	Deleted int `json:"deleted"`
}

// Reconciler walks the local mirror and deletes rows whose provider record no
// longer exists. Lookups are sequential and paced to stay inside the
// provider's rate limits; an indeterminate lookup never deletes.
type Reconciler struct {
	store   MirrorStore
	checker IdentityChecker
	limiter *rate.Limiter
}

// One provider lookup per 500ms, matching the pacing the provider tolerates.
const lookupInterval = 500 * time.Millisecond

func NewReconciler(store MirrorStore, checker IdentityChecker) *Reconciler {
	return &Reconciler{
		store:   store,
		checker: checker,
		limiter: rate.NewLimiter(rate.Every(lookupInterval), 1),
	}
}

// Reconcile runs one full pass. It returns an error only when the mirror
// cannot be enumerated; per-row failures are logged and skipped.
func (r *Reconciler) Reconcile(ctx context.Context) (Result, error) {
	log.Println("🔄 [RECONCILE] Starting user reconciliation")

	ids, err := r.store.ListUserIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list mirrored users: %w", err)
	}
	if len(ids) == 0 {
		log.Println("🔄 [RECONCILE] No mirrored users, nothing to reconcile")
		return Result{}, nil
	}

	var res Result
	for _, id := range ids {
		if err := r.limiter.Wait(ctx); err != nil {
			log.Printf("⚠️ [RECONCILE] Run interrupted after %d checks: %v", res.Checked, err)
			return res, nil
		}

		res.Checked++
		outcome := r.checker.CheckUser(ctx, id)
		if outcome != identity.OutcomeNotFound {
			continue
		}

		log.Printf("🗑️ [RECONCILE] User %s gone at provider, deleting mirror row", id)
		if err := r.store.DeleteUser(ctx, id); err != nil {
			log.Printf("❌ [RECONCILE] Failed to delete user %s: %v", id, err)
			continue
		}
		res.Deleted++
	}

	log.Printf("✅ [RECONCILE] Completed: checked=%d deleted=%d", res.Checked, res.Deleted)
	return res, nil
}

// ReconcileUser checks a single mirrored id and deletes it when the provider
// reports not-found. Returns whether the row was deleted.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID string) (bool, error) {
	outcome := r.checker.CheckUser(ctx, userID)
	if outcome != identity.OutcomeNotFound {
		log.Printf("🔍 [RECONCILE] User %s: %s, no action taken", userID, outcome)
		return false, nil
	}
	if err := r.store.DeleteUser(ctx, userID); err != nil {
		return false, fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	log.Printf("🗑️ [RECONCILE] User %s deleted", userID)
	return true, nil
}

// StartDailySchedule blocks forever, running one reconciliation every day at
// the given local hour. Run it on its own goroutine.
func (r *Reconciler) StartDailySchedule(hour int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if now.After(next) {
			next = next.AddDate(0, 0, 1)
		}

		wait := next.Sub(now)
		log.Printf("⏰ [RECONCILE] Next run scheduled for %s (in %v)", next.Format(time.RFC3339), wait.Round(time.Second))
		time.Sleep(wait)

		if _, err := r.Reconcile(context.Background()); err != nil {
			log.Printf("❌ [RECONCILE] Scheduled run failed: %v", err)
		}

		// Small delay to prevent multiple triggers
		time.Sleep(1 * time.Minute)
	}
}
