package activity

import (
	"context"
	"errors"
	"fmt"
	"taskhub/domain/ports"
)

// Dispatcher fans one event out to every registered observer. All observers
// run even when an earlier one fails; the errors come back joined.
type Dispatcher struct {
	observers []ports.ActivityObserver
}

func NewDispatcher(observers ...ports.ActivityObserver) *Dispatcher {
	d := &Dispatcher{}
	for _, o := range observers {
		d.Add(o)
	}
	return d
}

func (d *Dispatcher) Add(observer ports.ActivityObserver) {
	if observer != nil {
		d.observers = append(d.observers, observer)
	}
}

func (d *Dispatcher) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	var errs []error
	for _, o := range d.observers {
		if err := o.OnActivity(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", o, err))
		}
	}
	return errors.Join(errs...)
}

// PublisherObserver forwards events to a message bus.
type PublisherObserver struct {
	publisher ports.ActivityPublisherPort
}

func NewPublisherObserver(publisher ports.ActivityPublisherPort) *PublisherObserver {
	return &PublisherObserver{publisher: publisher}
}

func (o *PublisherObserver) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	return o.publisher.PublishActivity(ctx, event)
}

var (
	_ ports.ActivityObserver = (*Dispatcher)(nil)
	_ ports.ActivityObserver = (*PublisherObserver)(nil)
)
