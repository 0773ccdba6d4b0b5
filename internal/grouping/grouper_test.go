package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
)

func rec(id string, date any) models.Record {
	return models.Record{"id": id, "date": date, "title": "نشاط " + id}
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r["id"].(string)
	}
	return out
}

func keys[R any](buckets []Bucket[R]) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Key
	}
	return out
}

func TestGroup_AcademicOrder(t *testing.T) {
	records := []models.Record{
		rec("jan", "15 يناير 2026"),
		rec("sep", "5 شتنبر 2025"),
	}

	buckets := Group(months.FromEntries(nil), records)

	require.Len(t, buckets, 2)
	assert.Equal(t, "شتنبر 2025", buckets[0].Key)
	assert.Equal(t, "يناير 2026", buckets[1].Key)
	assert.Equal(t, "2025-2026", buckets[0].AcademicYear)
	assert.Equal(t, "2025-2026", buckets[1].AcademicYear)
}

func TestGroup_SameYearUsesAcademicPosition(t *testing.T) {
	records := []models.Record{
		rec("mar", "2025-03-10"),
		rec("dec", "2025-12-01"),
		rec("sep", "2025-09-20"),
		rec("aug", "2025-08-09"),
	}

	buckets := Group(months.FromEntries(nil), records)

	assert.Equal(t, []string{"شتنبر 2025", "دجنبر 2025", "مارس 2025", "غشت 2025"}, keys(buckets))
}

func TestGroup_ChronologicalWithinBucket(t *testing.T) {
	records := []models.Record{
		rec("c", "20 أكتوبر 2025"),
		rec("a", "2025-10-01"),
		rec("b1", "٥ أكتوبر ٢٠٢٥"),
		rec("b2", "الأحد 5 أكتوبر 2025"),
	}

	buckets := Group(months.FromEntries(nil), records)

	require.Len(t, buckets, 1)
	assert.Equal(t, "أكتوبر 2025", buckets[0].Key)
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids(buckets[0].Records))
}

func TestGroup_Totality(t *testing.T) {
	records := []models.Record{
		rec("nil", nil),
		rec("empty", ""),
		rec("garbage", "قريبا"),
		rec("hijri", "صفر ١٤٤٧ هـ"),
		rec("ok", "9 غشت 2025"),
		{"id": "missing"},
		rec("number", 42),
		rec("blank", "   "),
	}

	buckets := Group(months.FromEntries(nil), records)

	total := 0
	for _, b := range buckets {
		total += len(b.Records)
	}
	assert.Equal(t, len(records), total)

	assert.Equal(t, []string{"غشت 2025", BucketInvalidDate, BucketNoDate}, keys(buckets))
	assert.Equal(t, []string{"garbage", "hijri", "number"}, ids(buckets[1].Records))
	assert.Equal(t, []string{"nil", "empty", "missing", "blank"}, ids(buckets[2].Records))

	counts := Counts(buckets)
	assert.Equal(t, 1, counts[KindDated])
	assert.Equal(t, 3, counts[KindInvalidDate])
	assert.Equal(t, 4, counts[KindNoDate])
}

func TestGroup_Empty(t *testing.T) {
	buckets := Group[models.Record](months.FromEntries(nil), nil)
	assert.Empty(t, buckets)
}

func TestGroup_SharedBucketAcrossFormats(t *testing.T) {
	records := []models.Record{
		rec("iso", "2025-08-09"),
		rec("text", "9 غشت 2025"),
		rec("arabic", "٠٩ غشت ٢٠٢٥"),
	}

	buckets := Group(months.FromEntries(nil), records)
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Records, 3)
}

func TestGroup_Deterministic(t *testing.T) {
	records := []models.Record{
		rec("1", "1 ماي 2026"),
		rec("2", "2025-11-03"),
		rec("3", ""),
		rec("4", "3 نونبر 2025"),
		rec("5", "xx"),
		rec("6", "1 ماي 2026"),
	}
	c := months.FromEntries(nil)

	first := Group(c, records)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Group(c, records))
	}
}

func TestGroup_CustomCatalogKeys(t *testing.T) {
	entries := make([]models.CustomMonthEntry, 12)
	for i, name := range months.CalendarOrder {
		entries[i] = models.CustomMonthEntry{ID: name, Name: name, Order: i + 1, IsActive: true}
	}
	entries[8].Name = "سبتمبر"
	c := months.FromEntries(entries)

	records := []models.Record{
		rec("legacy", "5 شتنبر 2025"),
		rec("new", "6 سبتمبر 2025"),
	}

	buckets := Group(c.Snapshot(), records)
	require.Len(t, buckets, 1)
	assert.Equal(t, "سبتمبر 2025", buckets[0].Key)
	assert.Equal(t, []string{"legacy", "new"}, ids(buckets[0].Records))
}

func TestGroup_Activities(t *testing.T) {
	d1, d2 := "2026-02-14", "14 فبراير 2025"
	activities := []models.Activity{
		{ID: 1, Title: "عرض", Date: &d1},
		{ID: 2, Title: "ورشة", Date: &d2},
		{ID: 3, Title: "تدريب"},
	}

	buckets := Group(months.FromEntries(nil), activities)
	assert.Equal(t, []string{"فبراير 2025", "فبراير 2026", BucketNoDate}, keys(buckets))
}

func TestMonthOptionsAndSelect(t *testing.T) {
	records := []models.Record{
		rec("a", "2026-01-15"),
		rec("b", "2025-09-05"),
		rec("c", "2025-09-06"),
		rec("d", ""),
	}
	buckets := Group(months.FromEntries(nil), records)

	opts := MonthOptions(buckets)
	require.Len(t, opts, 2)
	assert.Equal(t, Option{Key: "شتنبر 2025", MonthIndex: 8, Year: 2025, AcademicYear: "2025-2026", Count: 2}, opts[0])
	assert.Equal(t, "يناير 2026", opts[1].Key)

	selected := Select(buckets, []string{"يناير 2026", "شتنبر 2025", "أبريل 2030"})
	assert.Equal(t, []string{"شتنبر 2025", "يناير 2026"}, keys(selected))

	assert.Empty(t, Select(buckets, nil))
}
