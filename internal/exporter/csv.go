// Package exporter writes applications out as CSV for spreadsheets.
package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/application"
)

var header = []string{
	"id",
	"company",
	"position_title",
	"status",
	"application_date",
	"response_date",
	"application_source",
	"job_location",
	"remote",
	"salary_min",
	"salary_max",
	"resume_version",
	"recruiter",
	"job_url",
	"notes",
}

// WriteApplications writes a header row followed by one row per application
func WriteApplications(w io.Writer, apps []application.Application) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "write CSV header")
	}
	for _, a := range apps {
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.CompanyName,
			a.PositionTitle,
			a.Status,
			a.ApplicationDate.String(),
			a.ResponseDate.String(),
			str(a.ApplicationSource),
			str(a.JobLocation),
			a.IsRemote.Label(),
			num(a.SalaryMin),
			num(a.SalaryMax),
			str(a.ResumeVersion),
			str(a.RecruiterName),
			str(a.JobURL),
			str(a.Notes),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write CSV record for application %d", a.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush CSV")
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
