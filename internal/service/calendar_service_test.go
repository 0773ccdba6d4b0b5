package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laaraari2/theatre-management-system-sub001/internal/grouping"
	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/logger"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/metrics"
)

// Mock ActivityRepository
type mockActivityRepository struct {
	listFunc        func(ctx context.Context) ([]models.Activity, error)
	updateDatesFunc func(ctx context.Context, activities []models.Activity) error
}

func (m *mockActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockActivityRepository) UpdateDates(ctx context.Context, activities []models.Activity) error {
	if m.updateDatesFunc != nil {
		return m.updateDatesFunc(ctx, activities)
	}
	return errors.New("not implemented")
}

func newTestService(repo *mockActivityRepository) (*CalendarService, *metrics.Metrics) {
	m := metrics.NewMetrics("calendar", prometheus.NewRegistry())
	catalog := months.NewCatalog(months.NewMemoryStore(), logger.Discard(), months.WithFallbackCounter(m.CatalogFallbacks))
	return NewCalendarService(catalog, repo, m, logger.Discard()), m
}

func activity(id uint64, date string) models.Activity {
	return models.Activity{ID: id, Title: "نشاط"}.WithDate(date)
}

func TestCalendarService_Months(t *testing.T) {
	svc, _ := newTestService(&mockActivityRepository{})

	view := svc.Months(context.Background())
	assert.Equal(t, months.CalendarOrder[:], view.Active)
	assert.Equal(t, months.AcademicOrder[:], view.Academic)
	assert.Empty(t, view.Warning)
}

func TestCalendarService_UpdateMonths(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(&mockActivityRepository{})

	t.Run("rename is visible immediately", func(t *testing.T) {
		entries, err := svc.ResetMonths(ctx)
		require.NoError(t, err)
		entries[8].Name = "سبتمبر"

		require.NoError(t, svc.UpdateMonths(ctx, entries))

		parsed := svc.ParseDate("5 سبتمبر 2025")
		assert.Equal(t, "parsed", parsed.Status)
		assert.Equal(t, "سبتمبر 2025", parsed.BucketKey)
		assert.Equal(t, "سبتمبر", svc.Months(ctx).Academic[0])
	})

	t.Run("incomplete catalog warns and falls back", func(t *testing.T) {
		entries, err := svc.ResetMonths(ctx)
		require.NoError(t, err)
		entries[3].IsActive = false

		require.NoError(t, svc.UpdateMonths(ctx, entries))

		view := svc.Months(ctx)
		assert.Equal(t, months.CalendarOrder[:], view.Active)
		assert.NotEmpty(t, view.Warning)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.CatalogFallbacks))
	})

	t.Run("invalid entry rejected", func(t *testing.T) {
		err := svc.UpdateMonths(ctx, []models.CustomMonthEntry{{ID: "x", Name: "", Order: 1}})
		assert.ErrorIs(t, err, months.ErrInvalidEntry)
	})
}

func TestCalendarService_ParseDate(t *testing.T) {
	svc, _ := newTestService(&mockActivityRepository{})

	parsed := svc.ParseDate("٩ غشت ٢٠٢٥")
	assert.Equal(t, "parsed", parsed.Status)
	require.NotNil(t, parsed.Date)
	assert.Equal(t, "2025-08-09", parsed.ISO)
	assert.Equal(t, "السبت 9 غشت 2025", parsed.Formatted)
	assert.Equal(t, "9 غشت 2025", parsed.Compact)
	assert.Equal(t, "غشت 2025", parsed.BucketKey)

	assert.Equal(t, grouping.BucketNoDate, svc.ParseDate("").BucketKey)
	invalid := svc.ParseDate("قريبا")
	assert.Equal(t, "invalid", invalid.Status)
	assert.Nil(t, invalid.Date)
	assert.Equal(t, grouping.BucketInvalidDate, invalid.BucketKey)
}

func TestCalendarService_GroupRecords(t *testing.T) {
	svc, m := newTestService(&mockActivityRepository{})

	buckets := svc.GroupRecords([]models.Record{
		{"id": "1", "date": "15 يناير 2026"},
		{"id": "2", "date": "5 شتنبر 2025"},
		{"id": "3", "date": nil},
	})

	require.Len(t, buckets, 3)
	assert.Equal(t, "شتنبر 2025", buckets[0].Key)
	assert.Equal(t, "يناير 2026", buckets[1].Key)
	assert.Equal(t, grouping.BucketNoDate, buckets[2].Key)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.GroupedRecords.WithLabelValues("dated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GroupedRecords.WithLabelValues("no_date")))
}

func TestCalendarService_GroupActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("groups and selects", func(t *testing.T) {
		repo := &mockActivityRepository{}
		repo.listFunc = func(ctx context.Context) ([]models.Activity, error) {
			return []models.Activity{
				activity(1, "2026-01-15"),
				activity(2, "5 شتنبر 2025"),
				activity(3, "10 أكتوبر 2025"),
			}, nil
		}
		svc, _ := newTestService(repo)

		out, err := svc.GroupActivities(ctx, nil)
		require.NoError(t, err)
		require.Len(t, out.Buckets, 3)
		require.Len(t, out.Options, 3)

		out, err = svc.GroupActivities(ctx, []string{"يناير 2026", "شتنبر 2025"})
		require.NoError(t, err)
		require.Len(t, out.Buckets, 2)
		assert.Equal(t, "شتنبر 2025", out.Buckets[0].Key)
		assert.Len(t, out.Options, 3, "picker still lists every month")
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &mockActivityRepository{}
		repo.listFunc = func(ctx context.Context) ([]models.Activity, error) {
			return nil, errors.New("database error")
		}
		svc, _ := newTestService(repo)

		_, err := svc.GroupActivities(ctx, nil)
		assert.Error(t, err)
	})
}

func TestCalendarService_MigrateHijri(t *testing.T) {
	ctx := context.Background()
	stored := []models.Activity{
		activity(1, "صفر ١٤٤٧ هـ"),
		activity(2, "9 غشت 2025"),
		activity(3, "صفر هـ"),
	}

	t.Run("persists changed records", func(t *testing.T) {
		var saved []models.Activity
		repo := &mockActivityRepository{}
		repo.listFunc = func(ctx context.Context) ([]models.Activity, error) { return stored, nil }
		repo.updateDatesFunc = func(ctx context.Context, activities []models.Activity) error {
			saved = activities
			return nil
		}
		svc, m := newTestService(repo)

		res, err := svc.MigrateHijri(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Scanned)
		assert.Equal(t, 1, res.UpdatedCount)
		assert.Equal(t, 1, res.Skipped)

		require.Len(t, saved, 1)
		assert.Equal(t, uint64(1), saved[0].ID)
		assert.Equal(t, "9 غشت 2025", saved[0].DateText())

		assert.Equal(t, float64(3), testutil.ToFloat64(m.MigrationRecords.WithLabelValues("scanned")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.MigrationRecords.WithLabelValues("changed")))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		repo := &mockActivityRepository{}
		repo.listFunc = func(ctx context.Context) ([]models.Activity, error) { return stored, nil }
		repo.updateDatesFunc = func(ctx context.Context, activities []models.Activity) error {
			t.Fatal("UpdateDates must not be called")
			return nil
		}
		svc, _ := newTestService(repo)

		res, err := svc.MigrateHijri(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 1, res.UpdatedCount)
	})

	t.Run("save error", func(t *testing.T) {
		repo := &mockActivityRepository{}
		repo.listFunc = func(ctx context.Context) ([]models.Activity, error) { return stored, nil }
		repo.updateDatesFunc = func(ctx context.Context, activities []models.Activity) error {
			return errors.New("database error")
		}
		svc, _ := newTestService(repo)

		_, err := svc.MigrateHijri(ctx, false)
		assert.Error(t, err)
	})
}
