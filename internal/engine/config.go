package engine

import (
	"fmt"
	"strings"
)

// Grid dimensions for a weekly timetable: Monday..Saturday, seven periods.
const (
	NumDays        = 6
	NumPeriods     = 7
	PeriodsPerWeek = NumDays * NumPeriods
)

// SubjectKind classifies how a subject is scheduled.
type SubjectKind int

const (
	KindLecture SubjectKind = iota
	KindLab
	KindTutorial
	KindSpecial
	KindElectiveMember
)

func (k SubjectKind) String() string {
	switch k {
	case KindLab:
		return "lab"
	case KindTutorial:
		return "tutorial"
	case KindSpecial:
		return "special"
	case KindElectiveMember:
		return "elective"
	default:
		return "lecture"
	}
}

// specialPeriods maps fixed-tag subjects to their weekly period count.
var specialPeriods = map[string]int{
	"PW":      4,
	"T&P":     4,
	"DS-I":    3,
	"SSD-III": 3,
	"BC":      3,
	"CS":      3,
	"LIB_HH":  1,
	"MH":      1,
}

// libraryNames is the authoritative set of library-style subjects restricted
// to the mid-morning and last period.
var libraryNames = map[string]bool{
	"LIB_HH":  true,
	"Library": true,
}

// Config is the canonical engine input: the department roster plus per-class
// activity lists. String identifiers are used at this boundary; the solvers
// translate to dense indices internally.
type Config struct {
	Classes        []string                `json:"classes"`
	Staff          []string                `json:"staff"`
	Subjects       []string                `json:"subjects"`
	StaffExpertise map[string][]string     `json:"staff_expertise"`
	ClassData      map[string]*ClassConfig `json:"class_data"`
}

// ClassConfig lists the activities of one class. Subjects carries lectures
// and specials; labs and tutorials are block sessions. PeriodsPerSubject is
// filled by AllocatePeriods before the solvers run.
type ClassConfig struct {
	Subjects          []string       `json:"subjects"`
	Labs              []string       `json:"labs"`
	Tutorials         []string       `json:"tutorials"`
	ElectiveGroups    [][]string     `json:"elective_groups"`
	PeriodsPerSubject map[string]int `json:"periods_per_subject,omitempty"`
}

// ActiveSubjects returns the class's subjects, labs and tutorials in
// declaration order with duplicates removed. This ordering is what fixes the
// solver's variable enumeration.
func (cc *ClassConfig) ActiveSubjects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{cc.Subjects, cc.Labs, cc.Tutorials} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// IsLab reports whether the subject is one of the class's lab blocks.
func (cc *ClassConfig) IsLab(name string) bool {
	return contains(cc.Labs, name)
}

// IsTutorial reports whether the subject is one of the class's tutorials.
func (cc *ClassConfig) IsTutorial(name string) bool {
	return contains(cc.Tutorials, name)
}

// IsElectiveMember reports whether the subject belongs to any elective group
// of the class.
func (cc *ClassConfig) IsElectiveMember(name string) bool {
	for _, group := range cc.ElectiveGroups {
		if contains(group, name) {
			return true
		}
	}
	return false
}

// Kind computes the scheduling category of a subject within this class.
func (cc *ClassConfig) Kind(name string) SubjectKind {
	switch {
	case cc.IsElectiveMember(name):
		return KindElectiveMember
	case cc.IsLab(name) || strings.HasSuffix(name, "_Lab"):
		return KindLab
	case cc.IsTutorial(name) || strings.Contains(name, "_Tutorial"):
		return KindTutorial
	default:
		if _, ok := specialPeriods[name]; ok {
			return KindSpecial
		}
		return KindLecture
	}
}

// IsLibrarySubject reports whether placement is restricted to periods 3 and 6.
func IsLibrarySubject(name string) bool {
	return libraryNames[name]
}

// isCoreLecture decides whether a subject counts as a plain weekly lecture
// for the daily-cap and repetition rules: not a block session, not a fixed
// tag, and not part of an elective group anywhere in the department.
func isCoreLecture(name string, cfg *Config) bool {
	if strings.Contains(name, "_Lab") || strings.Contains(name, "_Tutorial") {
		return false
	}
	if _, ok := specialPeriods[name]; ok {
		return false
	}
	for _, cc := range cfg.ClassData {
		if cc.IsElectiveMember(name) {
			return false
		}
	}
	return true
}

// Validate runs the structural and referential checks every pipeline stage
// relies on. It returns a ConfigInvalidError describing the first violation.
func (cfg *Config) Validate() error {
	if len(cfg.Classes) == 0 {
		return &ConfigInvalidError{Reason: "no classes declared"}
	}
	if err := checkUnique("class", cfg.Classes); err != nil {
		return err
	}
	if err := checkUnique("staff", cfg.Staff); err != nil {
		return err
	}
	if err := checkUnique("subject", cfg.Subjects); err != nil {
		return err
	}

	subjects := make(map[string]bool, len(cfg.Subjects))
	for _, s := range cfg.Subjects {
		subjects[s] = true
	}
	staff := make(map[string]bool, len(cfg.Staff))
	for _, t := range cfg.Staff {
		staff[t] = true
	}

	for _, class := range cfg.Classes {
		cc, ok := cfg.ClassData[class]
		if !ok || cc == nil {
			return &ConfigInvalidError{Reason: fmt.Sprintf("class %q has no activity data", class)}
		}
		for _, s := range cc.ActiveSubjects() {
			if !subjects[s] {
				return &ConfigInvalidError{Reason: fmt.Sprintf("class %q references unknown subject %q", class, s)}
			}
			qualified := 0
			for _, t := range cfg.StaffExpertise[s] {
				if staff[t] {
					qualified++
				}
			}
			if qualified == 0 {
				return &ConfigInvalidError{Reason: fmt.Sprintf("subject %q of class %q has no qualified staff", s, class)}
			}
		}
		for i, group := range cc.ElectiveGroups {
			if len(group) < 2 {
				return &ConfigInvalidError{Reason: fmt.Sprintf("elective group %d of class %q needs at least two subjects", i+1, class)}
			}
			for _, s := range group {
				if !contains(cc.Subjects, s) {
					return &ConfigInvalidError{Reason: fmt.Sprintf("elective subject %q of class %q is not in its subject list", s, class)}
				}
			}
		}
	}
	return nil
}

func checkUnique(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return &ConfigInvalidError{Reason: fmt.Sprintf("duplicate %s name %q", kind, n)}
		}
		seen[n] = true
	}
	return nil
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
