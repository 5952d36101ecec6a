package service

import "github.com/pixelplaza/tradehall/internal/domain"

// EventSink receives engine events on settlement-relevant transitions.
// Implementations must not block; dispatch happens on the caller's
// goroutine after the entity lock is released.
type EventSink interface {
	Publish(evt domain.Event)
}

// MultiSink fans one event out to several sinks.
type MultiSink []EventSink

func (m MultiSink) Publish(evt domain.Event) {
	for _, s := range m {
		s.Publish(evt)
	}
}

// publish forwards an event to an optional sink.
func publish(sink EventSink, evt domain.Event) {
	if sink != nil {
		sink.Publish(evt)
	}
}
