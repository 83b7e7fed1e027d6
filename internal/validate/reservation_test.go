package validate

import (
	"testing"
	"time"
)

var now = time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

func validInput() ReservationInput {
	return ReservationInput{
		NicheID:      5,
		Name:         "Nguyễn Văn An",
		PhoneNumber:  "0912345678",
		SignAddress:  SignAddresses[0],
		ContractDate: now.AddDate(0, 0, 2),
		IsCustomer:   true,
	}
}

func TestReservationValid(t *testing.T) {
	if fe := Reservation(validInput(), now); !fe.Empty() {
		t.Fatalf("valid input rejected: %v", fe)
	}
}

func TestReservationDateBounds(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		ok   bool
	}{
		{"today", now, true},
		{"tomorrow", now.AddDate(0, 0, 1), true},
		{"limit", now.AddDate(0, 0, 3), true},
		{"too far", now.AddDate(0, 0, 4), false},
		{"past", now.AddDate(0, 0, -1), false},
		{"zero", time.Time{}, false},
	}
	for _, c := range cases {
		in := validInput()
		in.ContractDate = c.date
		fe := Reservation(in, now)
		_, bad := fe["confirmationDate"]
		if c.ok && bad {
			t.Errorf("%s: unexpectedly rejected: %v", c.name, fe["confirmationDate"])
		}
		if !c.ok && !bad {
			t.Errorf("%s: should have been rejected", c.name)
		}
	}
}

func TestReservationPhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0912345678", true},
		{"0350000000", true},
		{"912345678", false},  // missing leading zero
		{"09123456789", false}, // too long
		{"091234567", false},  // too short
		{"0912a45678", false},
		{"", false},
	}
	for _, c := range cases {
		in := validInput()
		in.PhoneNumber = c.phone
		fe := Reservation(in, now)
		_, bad := fe["phoneNumber"]
		if c.ok == bad {
			t.Errorf("phone %q: ok=%v but errors=%v", c.phone, c.ok, fe["phoneNumber"])
		}
	}
}

func TestReservationSignAddress(t *testing.T) {
	in := validInput()
	in.SignAddress = "somewhere else entirely"
	if fe := Reservation(in, now); fe.Empty() {
		t.Fatal("unknown sign address accepted")
	}
	for _, addr := range SignAddresses {
		in.SignAddress = addr
		if fe := Reservation(in, now); !fe.Empty() {
			t.Fatalf("fixed address %q rejected: %v", addr, fe)
		}
	}
}

func TestReservationRequiredFields(t *testing.T) {
	in := ReservationInput{}
	fe := Reservation(in, now)
	for _, field := range []string{"nicheId", "name", "phoneNumber", "signAddress", "confirmationDate"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("missing violation for %s", field)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2026, 8, 30, 9, 15, 42, 0, time.Local)
	got := EndOfDay(d)
	want := time.Date(2026, 8, 30, 23, 59, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}
}

func TestEndOfDayKeepsHoldAliveToday(t *testing.T) {
	// a contract date of "today" stays valid because expiry is measured
	// against the end of the selected day
	in := validInput()
	in.ContractDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if fe := Reservation(in, now); !fe.Empty() {
		t.Fatalf("today rejected: %v", fe)
	}
}
