package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// resolveDate dispatches on the cell's shape: native date, serial number or
// a DD/MM[/YY[YY]] string.
func (p *Parser) resolveDate(c Cell) (time.Time, error) {
	switch c.Kind {
	case KindDate:
		return c.Time, nil
	case KindNumber:
		t, ok := serialToTime(c.Num)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid date value %v (number)", c.Num)
		}
		return t, nil
	case KindString:
		return p.parseDayMonth(c.Str)
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q (%s)", c.Text(), c.Kind)
}

// parseDayMonth parses "DD/MM" (current year) or "DD/MM/YY[YY]". Years of
// one or two digits are taken to be in the 2000s.
func (p *Parser) parseDayMonth(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
	}

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
		}
		nums[i] = n
	}

	day, month := nums[0], nums[1]
	var year int
	if len(nums) == 3 {
		year = nums[2]
		if len(strings.TrimSpace(parts[2])) <= 2 {
			year += 2000
		}
	} else {
		year = p.now().In(p.location()).Year()
	}

	if !validYear(year) || month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location()), nil
}

// validYear bounds dates to four-digit years, the range movement IDs and
// spreadsheets can express.
func validYear(y int) bool {
	return y >= 1 && y <= 9999
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
