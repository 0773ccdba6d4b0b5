package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/laaraari2/theatre-management-system-sub001/internal/dates"
	"github.com/laaraari2/theatre-management-system-sub001/internal/grouping"
	"github.com/laaraari2/theatre-management-system-sub001/internal/migration"
	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/internal/repository"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/metrics"
)

type CalendarService struct {
	catalog    *months.Catalog
	activities repository.ActivityRepositoryInterface
	metrics    *metrics.Metrics
	log        logrus.FieldLogger
}

func NewCalendarService(catalog *months.Catalog, activities repository.ActivityRepositoryInterface, m *metrics.Metrics, log logrus.FieldLogger) *CalendarService {
	return &CalendarService{
		catalog:    catalog,
		activities: activities,
		metrics:    m,
		log:        log,
	}
}

// MonthsView is the month catalog as shown in the settings screen
type MonthsView struct {
	Active   []string                  `json:"active"`
	Academic []string                  `json:"academic"`
	Entries  []models.CustomMonthEntry `json:"entries"`
	Warning  string                    `json:"warning,omitempty"`
}

// ParsedDate is the result of parsing one date string
type ParsedDate struct {
	Input     string               `json:"input"`
	Status    string               `json:"status"`
	Date      *dates.CanonicalDate `json:"date,omitempty"`
	ISO       string               `json:"iso,omitempty"`
	Formatted string               `json:"formatted,omitempty"`
	Compact   string               `json:"compact,omitempty"`
	BucketKey string               `json:"bucketKey"`
}

// GroupedActivities is the program view: buckets plus month picker options
type GroupedActivities struct {
	Buckets []grouping.Bucket[models.Activity] `json:"buckets"`
	Options []grouping.Option                  `json:"options"`
}

// Months returns the active month names in calendar and school-year order
func (s *CalendarService) Months(ctx context.Context) MonthsView {
	snap := s.catalog.Snapshot()
	active := snap.ActiveMonths()

	academic := make([]string, len(active))
	for pos := range academic {
		academic[pos] = active[months.CalendarIndexAt(pos)]
	}

	view := MonthsView{
		Active:   active,
		Academic: academic,
		Entries:  s.catalog.Entries(),
	}
	if err := s.catalog.Health(); err != nil {
		view.Warning = err.Error()
	}
	return view
}

// UpdateMonths replaces the custom month catalog
func (s *CalendarService) UpdateMonths(ctx context.Context, entries []models.CustomMonthEntry) error {
	if err := s.catalog.Update(ctx, entries); err != nil {
		return err
	}
	if err := s.catalog.Health(); err != nil {
		s.log.WithField("reason", err.Error()).Warn("Saved month catalog is not usable, built-in months stay active")
	}
	return nil
}

// ResetMonths restores the built-in month catalog
func (s *CalendarService) ResetMonths(ctx context.Context) ([]models.CustomMonthEntry, error) {
	entries, err := s.catalog.ResetToDefault(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("Month catalog reset to default")
	return entries, nil
}

// ParseDate parses and renders one date string
func (s *CalendarService) ParseDate(raw string) ParsedDate {
	snap := s.catalog.Snapshot()
	res := dates.NewParser(snap).Parse(raw)

	out := ParsedDate{Input: raw, Status: res.Status.String()}
	switch res.Status {
	case dates.StatusAbsent:
		out.BucketKey = grouping.BucketNoDate
		return out
	case dates.StatusInvalid:
		out.BucketKey = grouping.BucketInvalidDate
		return out
	}

	f := dates.NewFormatter(snap)
	d := res.Date
	out.Date = &d
	out.ISO = dates.ToISO(d)
	out.Formatted, _ = f.Format(d)
	out.Compact, _ = f.FormatCompact(d)
	out.BucketKey = grouping.BucketKey(snap.ActiveMonths(), d.MonthIndex, d.Year)
	return out
}

// GroupRecords groups opaque records by their "date" field
func (s *CalendarService) GroupRecords(records []models.Record) []grouping.Bucket[models.Record] {
	buckets := grouping.Group(s.catalog.Snapshot(), records)
	s.observe(grouping.Counts(buckets))
	return buckets
}

// GroupActivities groups the stored activities. When keys is not empty only
// those months are kept, for multi-month export.
func (s *CalendarService) GroupActivities(ctx context.Context, keys []string) (*GroupedActivities, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	buckets := grouping.Group(s.catalog.Snapshot(), activities)
	s.observe(grouping.Counts(buckets))

	out := &GroupedActivities{
		Buckets: buckets,
		Options: grouping.MonthOptions(buckets),
	}
	if len(keys) > 0 {
		out.Buckets = grouping.Select(buckets, keys)
	}
	return out, nil
}

// MigrateHijri rewrites legacy dates of stored activities. With dryRun
// nothing is written.
func (s *CalendarService) MigrateHijri(ctx context.Context, dryRun bool) (*migration.Result[models.Activity], error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	m := migration.NewMigrator(s.catalog.Snapshot(), s.log)
	res := migration.Run(m, activities)

	if !dryRun && res.UpdatedCount > 0 {
		if err := s.activities.UpdateDates(ctx, res.UpdatedRecords); err != nil {
			return nil, fmt.Errorf("failed to save migrated dates: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.MigrationRecords.WithLabelValues("scanned").Add(float64(res.Scanned))
		s.metrics.MigrationRecords.WithLabelValues("changed").Add(float64(res.UpdatedCount))
	}
	s.log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"changed": res.UpdatedCount,
		"skipped": res.Skipped,
		"dry_run": dryRun,
	}).Info("Hijri date migration finished")

	return &res, nil
}

func (s *CalendarService) observe(counts map[grouping.Kind]int) {
	if s.metrics == nil {
		return
	}
	for kind, n := range counts {
		s.metrics.GroupedRecords.WithLabelValues(string(kind)).Add(float64(n))
	}
}
