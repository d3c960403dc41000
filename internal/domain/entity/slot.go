package entity

import (
	"fmt"
	"strings"
	"time"
)

// SlotTime is one of the fixed hourly slot labels, "08:00 AM" through
// "17:00 PM". Hours before noon are labelled AM, the rest PM. The enumeration
// is a system constant, not configuration.
type SlotTime string

const (
	slotFirstHour = 8
	slotLastHour  = 17
)

// AllSlotTimes returns the ten hourly slots in chronological order.
func AllSlotTimes() []SlotTime {
	slots := make([]SlotTime, 0, slotLastHour-slotFirstHour+1)
	for hour := slotFirstHour; hour <= slotLastHour; hour++ {
		slots = append(slots, slotLabel(hour))
	}
	return slots
}

func slotLabel(hour int) SlotTime {
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	return SlotTime(fmt.Sprintf("%02d:00 %s", hour, meridiem))
}

// IsValidSlotTime reports whether s is one of the fixed slot labels.
func IsValidSlotTime(s SlotTime) bool {
	for _, slot := range AllSlotTimes() {
		if slot == s {
			return true
		}
	}
	return false
}

// IsMorning reports whether the slot carries an AM label.
func (s SlotTime) IsMorning() bool {
	return strings.Contains(strings.ToUpper(string(s)), "AM")
}

// SlotKey identifies the unit of capacity contention: a doctor's slot on a
// given day. At most MaxPerSlot non-closed appointments may share a key.
type SlotKey struct {
	DoctorID int
	Date     time.Time
	SlotTime SlotTime
}

// String renders the key in a stable form usable as a lock key.
func (k SlotKey) String() string {
	return fmt.Sprintf("%d:%s:%s", k.DoctorID, k.Date.Format("2006-01-02"), k.SlotTime)
}
