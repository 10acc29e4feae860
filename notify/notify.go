// Package notify delivers timesheet mutation notifications to a fixed
// administrative recipient. Delivery is decoupled from the mutation path:
// events go onto a queue and a background worker sends them, so a slow or
// failing sender can never fail the request that triggered it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Action classifies the mutation a notification describes.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the snapshot of a timesheet mutation taken at commit time.
// OldHoursWorked is set only when an update changed the hours.
type Event struct {
	Action         Action
	TimesheetID    uint
	Date           time.Time
	HoursWorked    float64
	OldHoursWorked *float64
	UserName       string
	UserEmail      string
	ProjectName    string
	Status         string
	EditorName     string
}

// Subject builds the email subject line for the event.
func (ev Event) Subject() string {
	var verb string
	switch ev.Action {
	case ActionCreated:
		verb = "Created"
	case ActionUpdated:
		verb = "Updated"
	case ActionDeleted:
		verb = "Deleted"
	default:
		verb = string(ev.Action)
	}
	return fmt.Sprintf("Timesheet %s - %s - %s", verb, ev.UserName, ev.Date.Format("Monday, 2 January 2006"))
}

// Body builds the plain-text email body for the event.
func (ev Event) Body() string {
	date := ev.Date.Format("Monday, 2 January 2006")
	switch ev.Action {
	case ActionCreated:
		return fmt.Sprintf(
			"A new timesheet entry has been created:\n\nOperative: %s\nDate: %s\nHours: %g\nProject: %s\nStatus: %s\nCreated by: %s",
			ev.UserName, date, ev.HoursWorked, ev.ProjectName, ev.Status, ev.EditorName)
	case ActionDeleted:
		return fmt.Sprintf(
			"A timesheet entry has been deleted:\n\nOperative: %s\nDate: %s\nHours: %g\nProject: %s\nDeleted by: %s",
			ev.UserName, date, ev.HoursWorked, ev.ProjectName, ev.EditorName)
	default:
		old := ""
		if ev.OldHoursWorked != nil {
			old = fmt.Sprintf("Previous Hours: %g\n", *ev.OldHoursWorked)
		}
		return fmt.Sprintf(
			"A timesheet entry has been modified:\n\nOperative: %s\nDate: %s\n%sNew Hours: %g\nProject: %s\nStatus: %s\nModified by: %s",
			ev.UserName, date, old, ev.HoursWorked, ev.ProjectName, ev.Status, ev.EditorName)
	}
}

// Sender delivers a single notification event.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// Dispatcher queues events for best-effort asynchronous delivery. Dispatch
// never blocks: when the queue is full the event is dropped and logged
// (at-most-once). A nil sender disables delivery entirely.
type Dispatcher struct {
	sender  Sender
	queue   chan Event
	done    chan struct{}
	timeout time.Duration
}

func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
		timeout: 10 * time.Second,
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		if d.sender == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sender.Send(ctx, ev)
		cancel()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"action":    ev.Action,
				"timesheet": ev.TimesheetID,
			}).Error("failed to send timesheet notification")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"action":    ev.Action,
			"operative": ev.UserName,
		}).Info("timesheet notification sent")
	}
}

// Dispatch enqueues an event without blocking the caller.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		logrus.WithFields(logrus.Fields{
			"action":    ev.Action,
			"timesheet": ev.TimesheetID,
		}).Warn("notification queue full, event dropped")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
