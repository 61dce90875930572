// Package export reshapes the merged ingestion output into CSV reports.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"skilljar-sync/internal/domain"
)

// Keep header order EXACT; downstream sheets key on column position.
var userReportHeader = []string{
	"#",
	"Student Name",
	"Email",
	"Open Tasks",
	"Enrolled At",
	"Latest Activity",
	"Domain",
	"Employee",
	"No activity",
}

// WriteUserReport writes one row per user from the merged progress list.
// employeeDomain marks which email domain counts as an internal employee.
func WriteUserReport(w io.Writer, users []domain.UserRecord, employeeDomain string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(userReportHeader); err != nil {
		return err
	}

	for i, u := range users {
		emailDomain := ""
		if at := strings.LastIndex(u.Email, "@"); at >= 0 {
			emailDomain = u.Email[at+1:]
		}
		latest := formatReportDate(u.LatestActivity)

		row := []string{
			strconv.Itoa(i + 1),
			u.Name,
			u.Email,
			"0",
			formatReportDate(u.SignedUpAt),
			latest,
			emailDomain,
			strconv.FormatBool(emailDomain == employeeDomain),
			strconv.FormatBool(latest == ""),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatReportDate renders timestamps as e.g. "2024-Aug-5"; unparseable or
// empty input renders empty.
func formatReportDate(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return ""
	}
	return t.Format("2006-Jan-2")
}

func parseTimestamp(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, errEmptyTimestamp
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadTimestamp
}

var (
	errEmptyTimestamp = timestampError("empty timestamp")
	errBadTimestamp   = timestampError("unrecognized timestamp")
)

type timestampError string

func (e timestampError) Error() string { return string(e) }
