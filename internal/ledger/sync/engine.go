// Package sync reconciles the local ledger with the authoritative remote
// store: push local mutations, then pull and adopt the server's canonical
// view wholesale. There is no merge and no event log; the remote store is
// last-writer-wins across devices.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
	"github.com/feyli/moneymood/internal/remote"
	"github.com/feyli/moneymood/pkg/logger"
)

// Session binds the engine to a remote user. While inactive, every trigger
// is a no-op and the ledger runs purely offline.
type Session struct {
	UserID uuid.UUID
	Active bool
}

type resource int

const (
	resourceTransactions resource = iota
	resourceAccounts
)

// syncTimeout bounds one push-then-pull round trip.
const syncTimeout = 30 * time.Second

// Engine is the reconciliation engine. Per resource it runs the state
// machine Idle → Syncing → Idle with at most one sync in flight; overlapping
// triggers are dropped and the next mutation's trigger catches up.
type Engine struct {
	log    *logger.Logger
	remote remote.Store
	store  *store.Store

	mu      sync.Mutex
	session Session
	syncing [2]bool

	wg sync.WaitGroup
}

// NewEngine creates an engine with no active session.
func NewEngine(remoteStore remote.Store, ledger *store.Store, log *logger.Logger) *Engine {
	return &Engine{
		log:    log.WithField("component", "sync"),
		remote: remoteStore,
		store:  ledger,
	}
}

// Session returns the current session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// StartSession activates a session and performs the one-time bidirectional
// bootstrap: push everything currently local, pull and adopt the server's
// view for both accounts and transactions, and do a one-shot settings pull.
func (e *Engine) StartSession(ctx context.Context, userID uuid.UUID) error {
	e.mu.Lock()
	e.session = Session{UserID: userID, Active: true}
	e.mu.Unlock()

	e.log.Info("starting sync session", "user_id", userID)

	if err := e.syncAccounts(ctx, userID); err != nil {
		return fmt.Errorf("bootstrap accounts sync failed: %w", err)
	}
	if err := e.syncTransactions(ctx, userID); err != nil {
		return fmt.Errorf("bootstrap transactions sync failed: %w", err)
	}
	if err := e.bootstrapSettings(ctx, userID); err != nil {
		return fmt.Errorf("bootstrap settings sync failed: %w", err)
	}

	return nil
}

// EndSession deactivates the session. In-flight syncs finish; new triggers
// become no-ops.
func (e *Engine) EndSession() {
	e.mu.Lock()
	e.session = Session{}
	e.mu.Unlock()
	e.log.Info("sync session ended")
}

// Wait blocks until all background syncs have finished. Used on shutdown and
// in tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// NotifyChanged is installed as the ledger store's change hook. It triggers
// a background sync per touched resource when a session is active.
func (e *Engine) NotifyChanged(c store.Changed) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if !session.Active {
		return
	}

	if c&store.ChangedAccounts != 0 {
		e.trigger(resourceAccounts, session.UserID)
	}
	if c&store.ChangedTransactions != 0 {
		e.trigger(resourceTransactions, session.UserID)
	}
}

// trigger starts a background sync for the resource unless one is already in
// flight. Dropped triggers are deliberate: the engine replicates state, not
// events, so the next mutation pushes the final state anyway.
func (e *Engine) trigger(r resource, userID uuid.UUID) {
	e.mu.Lock()
	if e.syncing[r] {
		e.mu.Unlock()
		return
	}
	e.syncing[r] = true
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			e.syncing[r] = false
			e.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		var err error
		switch r {
		case resourceAccounts:
			err = e.syncAccounts(ctx, userID)
		case resourceTransactions:
			err = e.syncTransactions(ctx, userID)
		}
		if err != nil {
			// Local optimistic state is kept; the next mutation retries.
			e.log.Error("sync failed", "resource", r, "error", err)
		}
	}()
}

// syncTransactions runs one push-then-pull cycle for the transaction set.
func (e *Engine) syncTransactions(ctx context.Context, userID uuid.UUID) error {
	local := e.store.Transactions()

	rows := make([]remote.TransactionRow, 0, len(local))
	for _, t := range local {
		rows = append(rows, rowFromTransaction(userID, t))
	}
	if len(rows) > 0 {
		if _, err := e.remote.UpsertTransactions(ctx, rows); err != nil {
			return fmt.Errorf("failed to push transactions: %w", err)
		}
	}

	canonical, err := e.remote.FetchTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to pull transactions: %w", err)
	}

	e.store.ReplaceTransactions(ctx, transactionsFromRows(canonical))
	e.log.Debug("transactions reconciled", "count", len(canonical))
	return nil
}

// syncAccounts runs one push-then-pull cycle for the account set. Accounts
// that were pushed as inserts gain server ids; transaction references to the
// old local ids are remapped and a transactions sync is triggered so the
// rewritten references reach the server.
func (e *Engine) syncAccounts(ctx context.Context, userID uuid.UUID) error {
	local := e.store.Accounts()

	rows := make([]remote.AccountRow, 0, len(local))
	for _, a := range local {
		rows = append(rows, rowFromAccount(userID, a))
	}

	mapping := make(map[domain.ID]domain.ID)
	if len(rows) > 0 {
		assigned, err := e.remote.UpsertAccounts(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to push accounts: %w", err)
		}
		// Returned rows are positional: pair each local-only id with the
		// server id the insert produced.
		for i, a := range local {
			if i < len(assigned) && a.ID.IsLocal() {
				mapping[a.ID] = domain.FromUUID(assigned[i].ID)
			}
		}
	}

	canonical, err := e.remote.FetchAccounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to pull accounts: %w", err)
	}

	e.store.ReplaceAccounts(ctx, accountsFromRows(canonical))

	if e.store.RemapAccountIDs(ctx, mapping) {
		e.trigger(resourceTransactions, userID)
	}

	e.log.Debug("accounts reconciled", "count", len(canonical))
	return nil
}

// bootstrapSettings pulls the user's preferences once. When the server has a
// row it wins; otherwise the local preferences seed it.
func (e *Engine) bootstrapSettings(ctx context.Context, userID uuid.UUID) error {
	row, err := e.remote.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	if row != nil {
		e.store.AdoptSettings(ctx, settingsFromRow(*row))
		return nil
	}
	return e.remote.UpsertSettings(ctx, rowFromSettings(userID, e.store.Settings()))
}

// PushSettings is installed as the store's settings hook: preferences are
// written through whenever they change locally.
func (e *Engine) PushSettings(settings domain.Settings) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if !session.Active {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := e.remote.UpsertSettings(ctx, rowFromSettings(session.UserID, settings)); err != nil {
			e.log.Error("failed to push settings", "error", err)
		}
	}()
}

// TransactionDeleted is installed as the store's deletion hook. The remote
// row is resolved by id when the local id is server-shaped, otherwise by
// matching content, then deleted and the local set refreshed from the
// server's response.
func (e *Engine) TransactionDeleted(removed domain.Transaction) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if !session.Active {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := e.deleteRemoteTransaction(ctx, session.UserID, removed); err != nil {
			e.log.Error("failed to delete remote transaction", "id", removed.ID, "error", err)
		}
	}()
}

func (e *Engine) deleteRemoteTransaction(ctx context.Context, userID uuid.UUID, removed domain.Transaction) error {
	var remoteID uuid.UUID

	if id, err := removed.ID.UUID(); err == nil {
		remoteID = id
	} else {
		// The record was never translated to a server id; find the remote
		// row with the same content.
		rows, err := e.remote.FetchTransactions(ctx, userID)
		if err != nil {
			return err
		}
		for _, r := range rows {
			candidate := transactionFromRow(r)
			if removed.Matches(&candidate) {
				remoteID = r.ID
				break
			}
		}
		if remoteID == uuid.Nil {
			// Nothing to delete: the record never reached the server.
			return nil
		}
	}

	if err := e.remote.DeleteTransactions(ctx, userID, []uuid.UUID{remoteID}); err != nil {
		return err
	}

	canonical, err := e.remote.FetchTransactions(ctx, userID)
	if err != nil {
		return err
	}
	e.store.ReplaceTransactions(ctx, transactionsFromRows(canonical))
	return nil
}

// AccountDeleted is installed as the store's account deletion hook.
func (e *Engine) AccountDeleted(removed domain.Account) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if !session.Active {
		return
	}

	id, err := removed.ID.UUID()
	if err != nil {
		// Local-only account: the server never saw it.
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := e.remote.DeleteAccounts(ctx, session.UserID, []uuid.UUID{id}); err != nil {
			e.log.Error("failed to delete remote account", "id", removed.ID, "error", err)
			return
		}

		canonical, err := e.remote.FetchAccounts(ctx, session.UserID)
		if err != nil {
			e.log.Error("failed to refresh accounts after delete", "error", err)
			return
		}
		e.store.ReplaceAccounts(ctx, accountsFromRows(canonical))
	}()
}
