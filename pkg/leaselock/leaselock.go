package leaselock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrBusy is returned when another holder owns an unexpired lease.
	ErrBusy = errors.New("lease lock busy")
	// ErrLost cancels the lease context when a renewal finds the lease taken.
	ErrLost = errors.New("lease lock lost")
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Client hands out expiring leases stored in the graph_locks table. A holder
// that dies leaves its lease behind until it expires.
type Client struct {
	db         dbConn
	ttl        time.Duration
	renewEvery time.Duration
	owner      string
}

// NewClientParams configures a Client. TTL defaults to five minutes and the
// lease is renewed every TTL/2.
type NewClientParams struct {
	TTL   time.Duration
	Owner string
}

func New(db dbConn, params NewClientParams) *Client {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Client{
		db:         db,
		ttl:        ttl,
		renewEvery: max(ttl/2, time.Second),
		owner:      params.Owner,
	}
}

// Lease is a held lock. Context is cancelled when the lease is released or
// lost.
type Lease struct {
	Key     string
	Token   string
	Context context.Context

	client   *Client
	cancel   context.CancelCauseFunc
	stopOnce sync.Once
	stopCh   chan struct{}
}

// WithLease runs fn while holding the lease for key. It fails with ErrBusy
// instead of waiting when the key is taken.
func (c *Client) WithLease(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		_ = lease.Release(context.Background())
	}()

	if err := fn(lease.Context); err != nil {
		if cause := context.Cause(lease.Context); errors.Is(cause, ErrLost) {
			return errors.Join(err, ErrLost)
		}
		return err
	}
	return nil
}

// Acquire takes the lease for key or returns ErrBusy.
func (c *Client) Acquire(ctx context.Context, key string) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lease lock key is empty")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	token := c.owner + id

	var returned string
	err = c.db.QueryRow(ctx, tryAcquireSQL, key, token, c.ttl.Milliseconds()).Scan(&returned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}

	leaseCtx, cancel := context.WithCancelCause(ctx)
	l := &Lease{
		Key:     key,
		Token:   token,
		Context: leaseCtx,
		client:  c,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
	}
	go l.renewLoop()
	return l, nil
}

// Release stops renewing and deletes the lease if it is still ours.
func (l *Lease) Release(ctx context.Context) error {
	l.stop(context.Canceled)
	_, err := l.client.db.Exec(ctx, releaseSQL, l.Key, l.Token)
	return err
}

func (l *Lease) stop(cause error) {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		l.cancel(cause)
	})
}

func (l *Lease) renewLoop() {
	t := time.NewTicker(l.client.renewEvery)
	defer t.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-l.Context.Done():
			return
		case <-t.C:
			if err := l.renew(); err != nil {
				l.stop(err)
				return
			}
		}
	}
}

func (l *Lease) renew() error {
	ctx, cancel := context.WithTimeout(l.Context, 15*time.Second)
	defer cancel()

	var returned string
	err := l.client.db.QueryRow(ctx, renewSQL, l.Key, l.Token, l.client.ttl.Milliseconds()).Scan(&returned)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLost
	}
	return err
}

const tryAcquireSQL = `
INSERT INTO graph_locks (lock_key, locked_by, expires_at)
VALUES ($1, $2, now() + ($3::bigint * interval '1 millisecond'))
ON CONFLICT (lock_key) DO UPDATE
SET locked_by  = EXCLUDED.locked_by,
    expires_at = EXCLUDED.expires_at
WHERE graph_locks.expires_at < now()
RETURNING lock_key;
`

const renewSQL = `
UPDATE graph_locks
SET expires_at = now() + ($3::bigint * interval '1 millisecond')
WHERE lock_key = $1 AND locked_by = $2
RETURNING lock_key;
`

const releaseSQL = `
DELETE FROM graph_locks
WHERE lock_key = $1 AND locked_by = $2;
`
