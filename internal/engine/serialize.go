package engine

import "strings"

// FreeSlot is the rendered text for an unoccupied period.
const FreeSlot = "--- FREE ---"

// RenderedSchedule is the boundary form of a timetable: class → stringified
// day index ("0".."5") → seven slot strings.
type RenderedSchedule map[string]map[string][]string

// Render turns the raw placement into the boundary record. Each occupied
// slot shows the subject with its assigned instructors joined by " & "; when
// an elective group shares a slot the first-listed member is shown. Block
// sessions naturally render as adjacent identical strings.
func Render(cfg *Config, placement Placement, assignments Assignments) RenderedSchedule {
	out := make(RenderedSchedule, len(cfg.Classes))
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		active := cc.ActiveSubjects()
		grids := placement[class]
		days := make(map[string][]string, NumDays)
		for d := 0; d < NumDays; d++ {
			row := make([]string, NumPeriods)
			for p := 0; p < NumPeriods; p++ {
				row[p] = FreeSlot
				for _, subject := range active {
					if grids[subject] != nil && grids[subject][d][p] {
						row[p] = slotString(subject, assignments[class][subject])
						break
					}
				}
			}
			days[dayKey(d)] = row
		}
		out[class] = days
	}
	return out
}

func slotString(subject string, instructors []string) string {
	return subject + " (" + strings.Join(instructors, " & ") + ")"
}

func dayKey(d int) string {
	return string(rune('0' + d))
}
