package adapter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
)

// Column headers expected on the first sheet of a department workbook.
const (
	colClass    = "Class"
	colSubject  = "Subject"
	colStaff    = "Staff"
	colType     = "Type"
	colElective = "Elective Group"
)

// ParseWorkbook reads a department workbook and builds the engine input
// record. Each row declares one (class, subject) pair; the staff cell may
// hold several comma-separated names, all of which become qualified
// instructors for the subject.
func ParseWorkbook(r io.Reader) (*engine.Config, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	cols := make(map[string]int)
	for i, header := range rows[0] {
		cols[strings.TrimSpace(header)] = i
	}
	for _, required := range []string{colClass, colSubject, colStaff} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet %q is missing the %q column", sheets[0], required)
		}
	}

	cfg := &engine.Config{
		StaffExpertise: make(map[string][]string),
		ClassData:      make(map[string]*engine.ClassConfig),
	}
	classSet := make(map[string]bool)
	subjectSet := make(map[string]bool)
	staffSet := make(map[string]bool)
	// Elective groups keyed per class by their sheet label, labels kept in
	// first-appearance order.
	groupLabels := make(map[string][]string)
	groupMembers := make(map[string]map[string][]string)

	for _, row := range rows[1:] {
		class := cellAt(row, cols[colClass])
		subject := cellAt(row, cols[colSubject])
		if class == "" || subject == "" {
			continue
		}

		classSet[class] = true
		subjectSet[subject] = true

		var rowStaff []string
		for _, name := range strings.Split(cellAt(row, cols[colStaff]), ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				rowStaff = append(rowStaff, trimmed)
				staffSet[trimmed] = true
			}
		}
		for _, name := range rowStaff {
			if !contains(cfg.StaffExpertise[subject], name) {
				cfg.StaffExpertise[subject] = append(cfg.StaffExpertise[subject], name)
			}
		}

		rowType := "Lecture"
		if idx, ok := cols[colType]; ok {
			if t := cellAt(row, idx); t != "" {
				rowType = t
			}
		}

		cc := cfg.ClassData[class]
		if cc == nil {
			cc = &engine.ClassConfig{}
			cfg.ClassData[class] = cc
		}

		switch {
		case strings.Contains(subject, "Lab") || rowType == "Lab":
			appendUnique(&cc.Labs, subject)
		case strings.Contains(subject, "Tutorial") || rowType == "Tutorial":
			appendUnique(&cc.Tutorials, subject)
		default:
			appendUnique(&cc.Subjects, subject)
		}

		if idx, ok := cols[colElective]; ok {
			if label := cellAt(row, idx); label != "" {
				if groupMembers[class] == nil {
					groupMembers[class] = make(map[string][]string)
				}
				if _, seen := groupMembers[class][label]; !seen {
					groupLabels[class] = append(groupLabels[class], label)
				}
				if !contains(groupMembers[class][label], subject) {
					groupMembers[class][label] = append(groupMembers[class][label], subject)
				}
			}
		}
	}

	for class, labels := range groupLabels {
		cc := cfg.ClassData[class]
		for _, label := range labels {
			if members := groupMembers[class][label]; len(members) > 1 {
				cc.ElectiveGroups = append(cc.ElectiveGroups, members)
			}
		}
	}

	cfg.Classes = sortedKeys(classSet)
	cfg.Subjects = sortedKeys(subjectSet)
	cfg.Staff = sortedKeys(staffSet)
	return cfg, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func appendUnique(list *[]string, value string) {
	if !contains(*list, value) {
		*list = append(*list, value)
	}
}

func contains(list []string, value string) bool {
	for _, s := range list {
		if s == value {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
