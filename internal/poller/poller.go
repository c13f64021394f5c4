package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gift_registry_echo/internal/services"
)

// State of a checkout being driven by the poller.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StatePaid      State = "paid"
	StateExpired   State = "expired"
	StateCancelled State = "cancelled"
)

// StatusClient is what the poller needs from the payment API: the check
// and cancel actions of the status endpoint.
type StatusClient interface {
	CheckStatus(ctx context.Context, paymentID string) (*services.StatusResult, error)
	Cancel(ctx context.Context, paymentID string) error
}

type Config struct {
	// Timeout is the countdown budget before the payment is
	// auto-cancelled.
	Timeout time.Duration
	// PollInterval is how often the status endpoint is checked.
	PollInterval time.Duration
	// Tick is the countdown granularity.
	Tick time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:      8 * time.Minute,
		PollInterval: 5 * time.Second,
		Tick:         time.Second,
	}
}

// Poller drives a pending checkout: a countdown and a status poll run
// independently until one of them reaches a terminal state. The first
// terminal transition wins; both tickers are always torn down.
type Poller struct {
	client       StatusClient
	cfg          Config
	log          *zap.Logger
	onTransition func(State)

	mu        sync.Mutex
	state     State
	remaining time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func New(client StatusClient, cfg Config, log *zap.Logger, onTransition func(State)) *Poller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig().Tick
	}
	return &Poller{
		client:       client,
		cfg:          cfg,
		log:          log,
		onTransition: onTransition,
		state:        StateIdle,
		remaining:    cfg.Timeout,
		done:         make(chan struct{}),
	}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Remaining is the countdown left on the timeout budget.
func (p *Poller) Remaining() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// Run blocks until the checkout reaches a terminal state or ctx is
// cancelled. Cancelling ctx tears both loops down without a terminal
// transition.
func (p *Poller) Run(ctx context.Context, paymentID string) State {
	p.transition(StatePending)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.pollLoop(ctx, paymentID)
	}()

	p.countdownLoop(ctx, paymentID)
	wg.Wait()

	return p.State()
}

// Cancel is the user-initiated cancel action.
func (p *Poller) Cancel(ctx context.Context, paymentID string) {
	if err := p.client.Cancel(ctx, paymentID); err != nil {
		p.log.Warn("cancel request failed", zap.String("payment_id", paymentID), zap.Error(err))
	}
	p.transition(StateCancelled)
}

func (p *Poller) countdownLoop(ctx context.Context, paymentID string) {
	ticker := time.NewTicker(p.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.stop()
			return
		case <-p.done:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.remaining -= p.cfg.Tick
			expired := p.remaining <= 0
			p.mu.Unlock()

			if expired {
				// Best effort: the gateway refuses to cancel an
				// already-completed payment, and a webhook may still
				// confirm it later.
				if err := p.client.Cancel(ctx, paymentID); err != nil {
					p.log.Warn("timeout cancel failed", zap.String("payment_id", paymentID), zap.Error(err))
				}
				p.transition(StateExpired)
				return
			}
		}
	}
}

func (p *Poller) pollLoop(ctx context.Context, paymentID string) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.stop()
			return
		case <-p.done:
			return
		case <-ticker.C:
			result, err := p.client.CheckStatus(ctx, paymentID)
			if err != nil {
				p.log.Warn("status poll failed", zap.String("payment_id", paymentID), zap.Error(err))
				continue
			}
			switch {
			case result.IsPaid:
				p.transition(StatePaid)
				return
			case result.IsCancelled:
				p.transition(StateCancelled)
				return
			}
		}
	}
}

// transition moves to the given state unless a terminal state was
// already reached. The first terminal transition closes the done channel
// and stops both loops.
func (p *Poller) transition(next State) {
	p.mu.Lock()
	if isTerminal(p.state) {
		p.mu.Unlock()
		return
	}
	p.state = next
	cb := p.onTransition
	p.mu.Unlock()

	if cb != nil {
		cb(next)
	}
	if isTerminal(next) {
		p.stop()
	}
}

func (p *Poller) stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

func isTerminal(s State) bool {
	return s == StatePaid || s == StateExpired || s == StateCancelled
}
