package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"skilljar-sync/internal/domain"
)

type monthMetrics struct {
	registrations int
	completions   int
}

// WriteMetricsReport writes a month-by-course matrix of registrations and
// same-month completions, months chronological, courses alphabetical.
func WriteMetricsReport(w io.Writer, users []domain.UserRecord) error {
	courseSet := map[string]bool{}
	monthly := map[string]map[string]*monthMetrics{}
	monthTimes := map[string]time.Time{}

	for _, u := range users {
		for _, c := range u.Courses {
			title := c.Course.Title
			if title == "" {
				continue
			}
			courseSet[title] = true

			enrolled := c.EnrolledAt
			if enrolled == "" {
				enrolled = u.SignedUpAt
			}
			et, err := parseTimestamp(enrolled)
			if err != nil {
				continue
			}
			month := et.Format("January 2006")
			if _, ok := monthly[month]; !ok {
				monthly[month] = map[string]*monthMetrics{}
				monthTimes[month] = time.Date(et.Year(), et.Month(), 1, 0, 0, 0, 0, time.UTC)
			}
			mm := monthly[month][title]
			if mm == nil {
				mm = &monthMetrics{}
				monthly[month][title] = mm
			}
			mm.registrations++

			// Completions only count toward the enrollment month.
			if ct, err := parseTimestamp(c.Progress.CompletedAt); err == nil {
				if ct.Format("January 2006") == month {
					mm.completions++
				}
			}
		}
	}

	courses := make([]string, 0, len(courseSet))
	for c := range courseSet {
		courses = append(courses, c)
	}
	sort.Strings(courses)

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return monthTimes[months[i]].Before(monthTimes[months[j]])
	})

	header := []string{"Month"}
	for _, c := range courses {
		header = append(header, c+" - registrations", c+" - completions")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range months {
		row := []string{m}
		for _, c := range courses {
			mm := monthly[m][c]
			if mm == nil {
				mm = &monthMetrics{}
			}
			row = append(row, strconv.Itoa(mm.registrations), strconv.Itoa(mm.completions))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
