package vaccine

import (
	"fmt"
	"sort"
	"time"
)

// Reminders lists the doses due within three days or already overdue at now,
// most urgent first.
func Reminders(vaccines []Vaccine, now time.Time) []Reminder {
	reminders := []Reminder{}
	for _, v := range vaccines {
		if v.NextDueDate == nil || v.Complete() {
			continue
		}
		days := daysUntil(*v.NextDueDate, now)
		switch {
		case days <= 0:
			reminders = append(reminders, Reminder{
				VaccineID: v.ID,
				Name:      v.Name,
				Kind:      ReminderOverdue,
				Days:      -days,
				Message:   fmt.Sprintf("Vaccine Overdue: %s was due %d day(s) ago!", v.Name, -days),
			})
		case days <= dueSoonDays:
			reminders = append(reminders, Reminder{
				VaccineID: v.ID,
				Name:      v.Name,
				Kind:      ReminderDueSoon,
				Days:      days,
				Message:   fmt.Sprintf("Vaccine Reminder: %s is due in %d day(s)!", v.Name, days),
			})
		}
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return urgencyScore(reminders[i]) > urgencyScore(reminders[j])
	})
	return reminders
}

func urgencyScore(r Reminder) int {
	if r.Kind == ReminderOverdue {
		return 1000 + r.Days
	}
	return dueSoonDays - r.Days
}
