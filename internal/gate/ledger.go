package gate

import (
	"strconv"
	"sync"
	"time"
)

// DefaultMarkerTTL bounds how long after Mark a marker can still be redeemed.
const DefaultMarkerTTL = time.Hour

// Ledger remembers redeemed marker nonces for one process, so a client that
// replays an old session cookie cannot open the gate twice. Entries older than
// the TTL are pruned; markers that old are refused by Redeem anyway.
type Ledger struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

// NewLedger returns a ledger; ttl <= 0 selects DefaultMarkerTTL.
func NewLedger(ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultMarkerTTL
	}
	return &Ledger{ttl: ttl, seen: make(map[string]time.Time)}
}

// Redeem accepts a consumed marker at most once. value is the marker value
// returned by Consume and nonce the id stored alongside it at Mark time.
func (l *Ledger) Redeem(nonce, value string, now time.Time) bool {
	if nonce == "" {
		return false
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false
	}
	issued := time.UnixMilli(ms)
	if issued.After(now.Add(time.Minute)) || now.Sub(issued) > l.ttl {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for n, at := range l.seen {
		if now.Sub(at) > l.ttl {
			delete(l.seen, n)
		}
	}
	if _, used := l.seen[nonce]; used {
		return false
	}
	l.seen[nonce] = issued
	return true
}

// Len reports how many nonces are currently remembered.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
