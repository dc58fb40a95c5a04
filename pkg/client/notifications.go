package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

const onPhaseChangedNtfnType = "onPhaseChanged"

type OnPhaseChangedNtfn func(blackjack.PhaseChange, time.Time)

func (_ OnPhaseChangedNtfn) typ() string { return onPhaseChangedNtfnType }

const onReshuffleNtfnType = "onReshuffle"

type OnReshuffleNtfn func(blackjack.Reshuffle, time.Time)

func (_ OnReshuffleNtfn) typ() string { return onReshuffleNtfnType }

const onRoundResultNtfnType = "onRoundResult"

type OnRoundResultNtfn func(blackjack.RoundResult, time.Time)

func (_ OnRoundResultNtfn) typ() string { return onRoundResultNtfnType }

const onSuspicionNtfnType = "onSuspicion"

type OnSuspicionNtfn func(suspicion.Change, time.Time)

func (_ OnSuspicionNtfn) typ() string { return onSuspicionNtfnType }

const onDealerCommentNtfnType = "onDealerComment"

type OnDealerCommentNtfn func(table.DealerComment, time.Time)

func (_ OnDealerCommentNtfn) typ() string { return onDealerCommentNtfnType }

const onDealerReportNtfnType = "onDealerReport"

type OnDealerReportNtfn func(suspicion.Change, time.Time)

func (_ OnDealerReportNtfn) typ() string { return onDealerReportNtfnType }

const onDealerChangedNtfnType = "onDealerChanged"

type OnDealerChangedNtfn func(table.DealerChange, time.Time)

func (_ OnDealerChangedNtfn) typ() string { return onDealerChangedNtfnType }

const onMessageNtfnType = "onMessage"

type OnMessageNtfn func(blackjack.Message, time.Time)

func (_ OnMessageNtfn) typ() string { return onMessageNtfnType }

// Following is the generic notification code.

type NotificationRegistration struct {
	unreg func() bool
}

func (reg NotificationRegistration) Unregister() bool {
	return reg.unreg()
}

type NotificationHandler interface {
	typ() string
}

type handler[T any] struct {
	handler T
	async   bool
}

type handlersFor[T any] struct {
	mtx      sync.Mutex
	next     uint
	handlers map[uint]handler[T]
}

func (hn *handlersFor[T]) register(h T, async bool) NotificationRegistration {
	var id uint

	hn.mtx.Lock()
	id, hn.next = hn.next, hn.next+1
	if hn.handlers == nil {
		hn.handlers = make(map[uint]handler[T])
	}
	hn.handlers[id] = handler[T]{handler: h, async: async}
	registered := true
	hn.mtx.Unlock()

	return NotificationRegistration{
		unreg: func() bool {
			hn.mtx.Lock()
			res := registered
			if registered {
				delete(hn.handlers, id)
				registered = false
			}
			hn.mtx.Unlock()
			return res
		},
	}
}

func (hn *handlersFor[T]) visit(f func(T)) {
	hn.mtx.Lock()
	for _, h := range hn.handlers {
		if h.async {
			go f(h.handler)
		} else {
			f(h.handler)
		}
	}
	hn.mtx.Unlock()
}

func (hn *handlersFor[T]) Register(v interface{}, async bool) NotificationRegistration {
	if h, ok := v.(T); !ok {
		panic("wrong type")
	} else {
		return hn.register(h, async)
	}
}

func (hn *handlersFor[T]) AnyRegistered() bool {
	hn.mtx.Lock()
	res := len(hn.handlers) > 0
	hn.mtx.Unlock()
	return res
}

type handlersRegistry interface {
	Register(v interface{}, async bool) NotificationRegistration
	AnyRegistered() bool
}

// NotificationManager dispatches table events to typed handlers.
type NotificationManager struct {
	handlers map[string]handlersRegistry
}

func (nmgr *NotificationManager) register(handler NotificationHandler, async bool) NotificationRegistration {
	handlers := nmgr.handlers[handler.typ()]
	if handlers == nil {
		panic(fmt.Sprintf("forgot to init the handler type %T "+
			"in NewNotificationManager", handler))
	}

	return handlers.Register(handler, async)
}

// Register registers a callback notification function that is called
// asynchronously to the event (i.e. in a separate goroutine).
func (nmgr *NotificationManager) Register(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, true)
}

// RegisterSync registers a callback notification function that is called
// synchronously to the event, in stream order. The callback must return
// quickly since it blocks the event stream.
func (nmgr *NotificationManager) RegisterSync(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, false)
}

// AnyRegistered returns true if there are any handlers registered for the given
// handler type.
func (nmgr *NotificationManager) AnyRegistered(handler NotificationHandler) bool {
	return nmgr.handlers[handler.typ()].AnyRegistered()
}

// Dispatch decodes a table event and calls the handlers registered for its
// type. Events without handlers are ignored.
func (nmgr *NotificationManager) Dispatch(ev *tablerpc.Event) error {
	ts := ev.Timestamp
	switch ev.Type {
	case blackjack.EventPhaseChanged:
		var p blackjack.PhaseChange
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onPhaseChangedNtfnType].(*handlersFor[OnPhaseChangedNtfn]).
			visit(func(h OnPhaseChangedNtfn) { h(p, ts) })

	case blackjack.EventReshuffle:
		var p blackjack.Reshuffle
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onReshuffleNtfnType].(*handlersFor[OnReshuffleNtfn]).
			visit(func(h OnReshuffleNtfn) { h(p, ts) })

	case blackjack.EventRoundResult:
		var p blackjack.RoundResult
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onRoundResultNtfnType].(*handlersFor[OnRoundResultNtfn]).
			visit(func(h OnRoundResultNtfn) { h(p, ts) })

	case blackjack.EventSuspicionChanged:
		var p suspicion.Change
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onSuspicionNtfnType].(*handlersFor[OnSuspicionNtfn]).
			visit(func(h OnSuspicionNtfn) { h(p, ts) })

	case blackjack.EventDealerComment:
		var p table.DealerComment
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onDealerCommentNtfnType].(*handlersFor[OnDealerCommentNtfn]).
			visit(func(h OnDealerCommentNtfn) { h(p, ts) })

	case blackjack.EventDealerReport:
		var p suspicion.Change
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onDealerReportNtfnType].(*handlersFor[OnDealerReportNtfn]).
			visit(func(h OnDealerReportNtfn) { h(p, ts) })

	case blackjack.EventDealerChanged:
		var p table.DealerChange
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onDealerChangedNtfnType].(*handlersFor[OnDealerChangedNtfn]).
			visit(func(h OnDealerChangedNtfn) { h(p, ts) })

	case blackjack.EventMessage:
		var p blackjack.Message
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		nmgr.handlers[onMessageNtfnType].(*handlersFor[OnMessageNtfn]).
			visit(func(h OnMessageNtfn) { h(p, ts) })
	}
	return nil
}

func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		handlers: map[string]handlersRegistry{
			onPhaseChangedNtfnType:  &handlersFor[OnPhaseChangedNtfn]{},
			onReshuffleNtfnType:     &handlersFor[OnReshuffleNtfn]{},
			onRoundResultNtfnType:   &handlersFor[OnRoundResultNtfn]{},
			onSuspicionNtfnType:     &handlersFor[OnSuspicionNtfn]{},
			onDealerCommentNtfnType: &handlersFor[OnDealerCommentNtfn]{},
			onDealerReportNtfnType:  &handlersFor[OnDealerReportNtfn]{},
			onDealerChangedNtfnType: &handlersFor[OnDealerChangedNtfn]{},
			onMessageNtfnType:       &handlersFor[OnMessageNtfn]{},
		},
	}
}
