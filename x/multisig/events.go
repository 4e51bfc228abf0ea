package multisig

import (
	"sync"

	"github.com/iov-one/msig"
)

// EventKind describes what happened to a wallet.
type EventKind string

const (
	SignerAdded          EventKind = "signer_added"
	SignerRemoved        EventKind = "signer_removed"
	ThresholdChanged     EventKind = "threshold_changed"
	OwnerChanged         EventKind = "owner_changed"
	TransactionProposed  EventKind = "transaction_proposed"
	TransactionConfirmed EventKind = "transaction_confirmed"
	ConfirmationRevoked  EventKind = "confirmation_revoked"
	TransactionExecuted  EventKind = "transaction_executed"
)

// Event is published after a successful wallet operation was written.
type Event struct {
	Kind   EventKind
	Wallet string
	// TxID is set for transaction events only.
	TxID int64
	// Actor is the address that performed the operation. Changes made by
	// an executed management transaction are performed by the wallet
	// address.
	Actor msig.Address
	// Subject is the signer added or removed, or the new owner.
	Subject msig.Address
	// Threshold is the new threshold of a ThresholdChanged event.
	Threshold uint32
}

// Observer is notified about every event of a wallet it was registered
// with. Notify is called while the wallet is locked and must not call back
// into the wallet.
type Observer interface {
	Notify(Event)
}

// ObserverFunc is an adapter that allows to use a function as an Observer.
type ObserverFunc func(Event)

func (fn ObserverFunc) Notify(e Event) {
	fn(e)
}

// Subscription is an Observer that queues events and delivers them on a
// channel. Notify never blocks, so a consumer is free to call into the
// wallet when handling an event.
type Subscription struct {
	mu    sync.Mutex
	queue []Event

	wake chan struct{}
	out  chan Event
	done chan struct{}
	once sync.Once
}

var _ Observer = (*Subscription)(nil)

// NewSubscription returns a running subscription. Register it with
// Wallet.Observe and release it with Close.
func NewSubscription() *Subscription {
	s := &Subscription{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
		done: make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *Subscription) Notify(e Event) {
	select {
	case <-s.done:
		return
	default:
	}
	s.mu.Lock()
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Events returns the channel that events are delivered on in the order they
// were published. The channel is closed after Close was called.
func (s *Subscription) Events() <-chan Event {
	return s.out
}

// Close stops the delivery. Events that were not yet delivered are dropped.
func (s *Subscription) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- e:
		case <-s.done:
			return
		}
	}
}
