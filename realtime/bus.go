package realtime

import (
	"sync"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
)

// PanelEvent enumerates the cross-widget messages sibling UI surfaces
// exchange. The set is closed: a payload type is defined per kind below.
type PanelEvent string

const (
	// PanelGlobals hands the in-progress booking context to another panel,
	// payload BookingContext.
	PanelGlobals PanelEvent = "panels.globals"
	// PanelOpenAddCard asks for the add-payment-card panel, payload models.User
	// (the tutor being booked).
	PanelOpenAddCard PanelEvent = "panels.open.add_card"
	// PanelOpenBooking asks for a fresh booking panel, payload models.User.
	PanelOpenBooking PanelEvent = "panels.open.booking"
)

// BookingContext is the PanelGlobals payload: everything another panel needs
// to resume a booking that was interrupted (e.g. to collect a payment card).
type BookingContext struct {
	Date    time.Time
	Subject string
	Payload models.BookingRequest
}

// Bus is a typed publish/subscribe mediator for panel events. It is injected
// into components rather than accessed as ambient global state.
type Bus struct {
	mu      sync.Mutex
	subs    map[PanelEvent]map[int]func(any)
	nextSub int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[PanelEvent]map[int]func(any))}
}

// Subscribe registers a handler for one event kind and returns a cancel
// function. Handlers run synchronously on the emitter's goroutine.
func (b *Bus) Subscribe(kind PanelEvent, fn func(payload any)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[kind] == nil {
		b.subs[kind] = make(map[int]func(any))
	}
	id := b.nextSub
	b.nextSub++
	b.subs[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[kind], id)
		})
	}
}

// Emit delivers the payload to every subscriber of the kind.
func (b *Bus) Emit(kind PanelEvent, payload any) {
	b.mu.Lock()
	handlers := make([]func(any), 0, len(b.subs[kind]))
	for _, fn := range b.subs[kind] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
