// Package validate holds the declarative business constraints applied
// to a reservation submission before any row is written.  These mirror
// the checks the portal performs client-side; the service is the
// enforcement authority and repeats them on every request.
package validate

import (
	"regexp"
	"time"
)

// MaxContractDays bounds how far in the future a niche-booking
// contract date may lie.  Renewal requests use the longer
// MaxRenewalWindow instead.
const MaxContractDays = 3

// MaxRenewalWindow bounds renewal confirmation dates.
const MaxRenewalWindow = 31 * 24 * time.Hour

// SignAddresses is the fixed set of physical offices where a contract
// can be signed.  The list is compile-time constant, not served data.
var SignAddresses = []string{
	"Văn phòng An Bình Viên - 62 Trần Phú, Ba Đình, Hà Nội",
	"Văn phòng giao dịch - 188 Nguyễn Văn Cừ, Long Biên, Hà Nội",
	"Nhà lưu tro An Bình - Thôn Vệ Linh, Sóc Sơn, Hà Nội",
}

// MaxActivePerPhone caps the number of simultaneously pending
// reservations one phone number may hold.  QuotaMessage is surfaced to
// clients verbatim when the cap is hit.
const (
	MaxActivePerPhone = 3
	QuotaMessage      = "Mỗi số điện thoại chỉ được đặt tối đa 3 ô chứa"
)

// mobilePattern matches local mobile numbers: a leading zero followed
// by nine digits.
var mobilePattern = regexp.MustCompile(`^0\d{9}$`)

// ReservationInput carries the submitted form fields.  ContractDate is
// the raw day the requester picked; EndOfDay is applied before
// persistence so the hold covers the whole selected day.
type ReservationInput struct {
	NicheID      uint64
	Name         string
	PhoneNumber  string
	SignAddress  string
	ContractDate time.Time
	Note         string
	IsCustomer   bool
}

// FieldErrors maps a field name to its violation messages, matching
// the `errors` envelope clients already consume.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) { fe[field] = append(fe[field], msg) }

// Empty reports whether no violations were recorded.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Reservation checks a submission against the form constraints and
// returns the violations found.  now anchors the contract-date window
// so callers and tests control the clock.
func Reservation(in ReservationInput, now time.Time) FieldErrors {
	fe := FieldErrors{}
	if in.NicheID == 0 {
		fe.add("nicheId", "nicheId is required")
	}
	if in.Name == "" {
		fe.add("name", "name is required")
	}
	switch {
	case in.PhoneNumber == "":
		fe.add("phoneNumber", "phoneNumber is required")
	case !mobilePattern.MatchString(in.PhoneNumber):
		fe.add("phoneNumber", "phoneNumber must be a valid mobile number")
	}
	if !ValidSignAddress(in.SignAddress) {
		fe.add("signAddress", "signAddress must be one of the signing offices")
	}
	if msg := ContractDateError(in.ContractDate, now); msg != "" {
		fe.add("confirmationDate", msg)
	}
	return fe
}

// ContractDateError returns the violation message for a contract date,
// or "" when the date is acceptable.  Both the create and the update
// path go through here so a past date is rejected the same way on
// either; a past date that slipped through an update would be swept to
// Expired on the next request.
func ContractDateError(d, now time.Time) string {
	switch {
	case d.IsZero():
		return "confirmationDate is required"
	case EndOfDay(d).Before(now):
		return "confirmationDate must not be in the past"
	case d.After(now.AddDate(0, 0, MaxContractDays)):
		return "confirmationDate must be within 3 days"
	}
	return ""
}

// ValidSignAddress reports whether addr is one of the fixed signing
// offices.
func ValidSignAddress(addr string) bool {
	for _, a := range SignAddresses {
		if a == addr {
			return true
		}
	}
	return false
}

// ValidPhone reports whether the number matches the local mobile
// pattern.
func ValidPhone(phone string) bool { return mobilePattern.MatchString(phone) }

// EndOfDay shifts a date to 23:59:00 in its own location, giving the
// requester the full selected day before the hold expires.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}
