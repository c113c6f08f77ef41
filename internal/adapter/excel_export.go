package adapter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
)

// ExportWorkbook converts a configuration record back into the department
// workbook layout, one row per (class, subject) with the qualified staff
// joined by commas. The inverse of ParseWorkbook, used to hand an editable
// sheet back to coordinators.
func ExportWorkbook(cfg *engine.Config) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	headers := []string{colClass, colSubject, colStaff, colType, colElective}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	rowNum := 2
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		if cc == nil {
			continue
		}
		for _, subject := range cc.ActiveSubjects() {
			staff := cfg.StaffExpertise[subject]
			group := ""
			for idx, members := range cc.ElectiveGroups {
				for _, member := range members {
					if member == subject {
						group = fmt.Sprintf("Group_%d", idx+1)
					}
				}
			}
			values := []interface{}{
				class,
				subject,
				strings.Join(staff, ", "),
				subjectType(cc, subject),
				group,
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, fmt.Errorf("write row %d: %w", rowNum, err)
				}
			}
			rowNum++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func subjectType(cc *engine.ClassConfig, subject string) string {
	switch cc.Kind(subject) {
	case engine.KindLab:
		return "Lab"
	case engine.KindTutorial:
		return "Tutorial"
	case engine.KindSpecial:
		return "Special"
	default:
		return "Lecture"
	}
}
