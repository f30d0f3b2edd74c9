package models

import "testing"

func TestAttendeeCountIgnoresCancelled(t *testing.T) {
	e := Event{Attendees: []Attendee{
		{UserID: 1, Status: AttendeeRegistered},
		{UserID: 2, Status: AttendeeCancelled},
		{UserID: 3, Status: AttendeeAttended},
	}}

	if got := e.AttendeeCount(); got != 2 {
		t.Errorf("AttendeeCount() = %d, want 2", got)
	}
}

func TestIsFull(t *testing.T) {
	e := Event{Attendees: []Attendee{
		{UserID: 1, Status: AttendeeRegistered},
		{UserID: 2, Status: AttendeeRegistered},
	}}

	if e.IsFull() {
		t.Error("event without capacity reported full")
	}

	capacity := 2
	e.Capacity = &capacity
	if !e.IsFull() {
		t.Error("event at capacity not reported full")
	}

	capacity = 3
	if e.IsFull() {
		t.Error("event below capacity reported full")
	}
}

func TestIsFullExcludesCancelled(t *testing.T) {
	capacity := 1
	e := Event{
		Capacity: &capacity,
		Attendees: []Attendee{
			{UserID: 1, Status: AttendeeCancelled},
		},
	}

	if e.IsFull() {
		t.Error("cancelled registration counted towards capacity")
	}
}

func TestActiveRegistration(t *testing.T) {
	e := Event{Attendees: []Attendee{
		{UserID: 1, Status: AttendeeCancelled},
		{UserID: 2, Status: AttendeeRegistered},
	}}

	if reg := e.ActiveRegistration(2); reg == nil || reg.UserID != 2 {
		t.Errorf("ActiveRegistration(2) = %v, want user 2", reg)
	}
	if reg := e.ActiveRegistration(1); reg != nil {
		t.Errorf("cancelled registration returned as active: %v", reg)
	}
	if reg := e.ActiveRegistration(9); reg != nil {
		t.Errorf("ActiveRegistration(9) = %v, want nil", reg)
	}
}
