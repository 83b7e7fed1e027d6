package model

import "testing"

func TestParseNicheStatusNormalizesCasing(t *testing.T) {
	cases := []struct {
		raw  string
		want NicheStatus
	}{
		{"Available", StatusAvailable},
		{"AVAILABLE", StatusAvailable},
		{"available ", StatusAvailable},
		{"Booked", StatusBooked},
		{"booked", StatusBooked},
		{"RESERVED", StatusBooked},
		{"unavailable", StatusUnavailable},
		{"Unavailable", StatusUnavailable},
		{"", StatusUnknown},
		{"weird-new-state", StatusUnknown},
	}
	for _, c := range cases {
		if got := ParseNicheStatus(c.raw); got != c.want {
			t.Errorf("ParseNicheStatus(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestSelectable(t *testing.T) {
	if !StatusAvailable.Selectable() {
		t.Error("Available must be selectable")
	}
	for _, s := range []NicheStatus{StatusBooked, StatusUnavailable, StatusUnknown} {
		if s.Selectable() {
			t.Errorf("%s must not be selectable", s)
		}
	}
}

func TestBadgeColor(t *testing.T) {
	cases := map[string]string{
		ReservationPending:  "neutral",
		ReservationApproved: "positive",
		ReservationCanceled: "negative",
		ReservationExpired:  "negative",
		"SomethingNew":      "neutral",
	}
	for status, want := range cases {
		if got := BadgeColor(status); got != want {
			t.Errorf("BadgeColor(%s) = %s, want %s", status, got, want)
		}
	}
}

func TestReservationEditable(t *testing.T) {
	if !ReservationEditable(ReservationPending) {
		t.Error("pending must be editable")
	}
	for _, s := range []string{ReservationApproved, ReservationCanceled, ReservationExpired} {
		if ReservationEditable(s) {
			t.Errorf("%s must not be editable", s)
		}
	}
}
