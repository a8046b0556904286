package keeper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/azure"
	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/shared"
	"go.uber.org/zap"
)

// Action is the canonical form of a server command argument.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionStatus Action = "status"
	// ActionNone marks an argument outside the alias table.
	ActionNone Action = ""
)

var actionAliases = map[string]Action{
	"on":      ActionStart,
	"start":   ActionStart,
	"awake":   ActionStart,
	"awaken":  ActionStart,
	"off":     ActionStop,
	"stop":    ActionStop,
	"sleep":   ActionStop,
	"slumber": ActionStop,
	"managed": ActionStop,
	"status":  ActionStatus,
	"check":   ActionStatus,
}

// ParseAction maps a command argument to its action, ignoring case.
func ParseAction(arg string) Action {
	return actionAliases[strings.ToLower(strings.TrimSpace(arg))]
}

func (a Action) label() string {
	if a == ActionNone {
		return "invalid"
	}
	return string(a)
}

const (
	powerRunning     = "VM running"
	powerDeallocated = "VM deallocated"
)

// Trigger fires a start or stop automation hook.
type Trigger interface {
	Fire(ctx context.Context, kind, endpoint string) error
}

// PowerStateSource reports the current power state of the realm's VM.
type PowerStateSource interface {
	PowerState(ctx context.Context) (string, error)
}

// Result is what an action handler produces. Err marks an unexpected failure
// that Handle turns into the faltered reply.
type Result struct {
	Reply Reply
	Err   error
}

// RouterDeps holds the collaborators of a Router. Nil clock, random source,
// state and logger get defaults.
type RouterDeps struct {
	StartURL string
	StopURL  string
	Prefix   string

	Trigger Trigger
	Status  PowerStateSource
	State   *SessionState

	Rand    IntNSource
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics *Metrics
}

// Router maps server command arguments to webhook calls and status lookups.
type Router struct {
	startURL string
	stopURL  string
	prefix   string

	trigger Trigger
	status  PowerStateSource
	state   *SessionState

	rand    IntNSource
	now     func() time.Time
	logger  *zap.Logger
	metrics *Metrics
}

// NewRouter creates a Router from deps.
func NewRouter(deps RouterDeps) *Router {
	r := &Router{
		startURL: deps.StartURL,
		stopURL:  deps.StopURL,
		prefix:   deps.Prefix,
		trigger:  deps.Trigger,
		status:   deps.Status,
		state:    deps.State,
		rand:     deps.Rand,
		now:      deps.Now,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
	if r.prefix == "" {
		r.prefix = "!"
	}
	if r.state == nil {
		r.state = NewSessionState()
	}
	if r.rand == nil {
		r.rand = DefaultSource
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// State exposes the session timestamps owned by the router.
func (r *Router) State() *SessionState {
	return r.state
}

// Handle runs one server command and always returns a reply. Failures inside
// a handler, panics included, become the faltered reply here and go no
// further.
func (r *Router) Handle(ctx context.Context, arg, user string) Reply {
	action := ParseAction(arg)
	started := time.Now()

	res := r.run(ctx, action, user)

	outcome := "ok"
	if res.Err != nil {
		outcome = "error"
		r.metrics.RecordError("router", action.label())
		shared.LogErrorWithContext(ctx, r.logger, "server command failed", res.Err,
			zap.String("action", action.label()),
			zap.String("user", user),
		)
		res.Reply = falteredReply(res.Err)
	}

	r.metrics.RecordCommand(action.label(), outcome)
	r.metrics.RecordCommandDuration(action.label(), time.Since(started).Seconds())
	shared.LogWithContext(ctx, r.logger, "server command handled",
		zap.String("action", action.label()),
		zap.String("outcome", outcome),
		zap.String("user", user),
	)
	return res.Reply
}

func (r *Router) run(ctx context.Context, action Action, user string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return r.dispatch(ctx, action, user)
}

func (r *Router) dispatch(ctx context.Context, action Action, user string) Result {
	switch action {
	case ActionStart:
		return r.handleStart(ctx, user)
	case ActionStop:
		return r.handleStop(ctx, user)
	case ActionStatus:
		return r.handleStatus(ctx)
	default:
		return Result{Reply: invalidIncantationReply(r.prefix)}
	}
}

func (r *Router) handleStart(ctx context.Context, user string) Result {
	if err := r.trigger.Fire(ctx, string(ActionStart), r.startURL); err != nil {
		return Result{Err: fmt.Errorf("start webhook: %w", err)}
	}
	r.state.MarkStarted(r.now())
	return Result{Reply: awakeReply(PickQuote(r.rand, awakeQuotes), user)}
}

func (r *Router) handleStop(ctx context.Context, user string) Result {
	if err := r.trigger.Fire(ctx, string(ActionStop), r.stopURL); err != nil {
		return Result{Err: fmt.Errorf("stop webhook: %w", err)}
	}
	r.state.MarkStopped(r.now())
	return Result{Reply: sleepReply(PickQuote(r.rand, sleepQuotes), user)}
}

// handleStatus answers auth and compute failures with the scrying reply, not
// the faltered one.
func (r *Router) handleStatus(ctx context.Context) Result {
	state, err := r.status.PowerState(ctx)
	if err != nil {
		r.metrics.RecordError("status", statusErrorType(err))
		return Result{Reply: scryingFailedReply(err)}
	}

	now := r.now()
	switch state {
	case powerRunning:
		text := "The realm hums with power."
		if since, ok := r.state.LastStarted(); ok {
			text += fmt.Sprintf("\nIt has been awake for **%s**.", FormatElapsed(since, now))
		}
		return Result{Reply: statusReply(text, colorAwake, state)}
	case powerDeallocated:
		text := "The realm slumbers in quiet repose."
		if since, ok := r.state.LastStopped(); ok {
			text += fmt.Sprintf("\nIt has been asleep for **%s**.", FormatElapsed(since, now))
		}
		return Result{Reply: statusReply(text, colorAsleep, state)}
	default:
		return Result{Reply: statusReply(fmt.Sprintf("The realm is in an uncertain state: `%s`.", state), colorUncertain, state)}
	}
}

func statusErrorType(err error) string {
	var authErr *azure.AuthError
	var statusErr *azure.StatusError
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &statusErr):
		return "vm_status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "request"
	}
}
