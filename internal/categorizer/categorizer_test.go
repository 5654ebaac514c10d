package categorizer

import (
	"testing"
	"time"

	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/kovalyov-valentin/deadline-bot/internal/timeparse"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, timeparse.FixedZone(3*time.Hour))

func newCategorizer() *Categorizer {
	return New(timeparse.NewParser(nil), model.DefaultCategories())
}

func names(events []model.Event) []string {
	return lo.Map(events, func(e model.Event, _ int) string { return e.DisplayName })
}

func bucketOf(t *testing.T, buckets []Bucket, key model.Category) Bucket {
	t.Helper()
	bucket, ok := lo.Find(buckets, func(b Bucket) bool { return b.Spec.Key == key })
	require.True(t, ok, "no bucket %s", key)
	return bucket
}

func TestClassify(t *testing.T) {
	c := newCategorizer()

	tests := []struct {
		name        string
		wantCat     model.Category
		wantDisplay string
	}{
		{"Homework 1", model.CategoryPrimary, "Homework 1"},
		{"  Homework 1 ", model.CategoryPrimary, "Homework 1"},
		{"[Тест] Midterm", model.CategoryTest, "Midterm"},
		{"[тест]Midterm", model.CategoryTest, "Midterm"},
		{"[ТЕСТ] Midterm", model.CategoryTest, "Midterm"},
		{"[Лекция] Algebra", model.CategoryLecture, "Algebra"},
		{"[Защита] Lab 3", model.CategoryDefense, "Lab 3"},
		{"[Экзамен] Calculus", model.CategoryExam, "Calculus"},
		{"[Консультация] Physics", model.CategoryConsultation, "Physics"},
		{"[Доп] Extra", model.CategoryOther, "[Доп] Extra"},
		{"[] Empty tag", model.CategoryOther, "[] Empty tag"},
		{"[unclosed tag", model.CategoryPrimary, "[unclosed tag"},
		{"Midterm [Тест]", model.CategoryPrimary, "Midterm [Тест]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, display := c.Classify(tt.name)
			assert.Equal(t, tt.wantCat, cat)
			assert.Equal(t, tt.wantDisplay, display)
		})
	}
}

func TestCategorize_ClassificationDependsOnNameOnly(t *testing.T) {
	c := newCategorizer()

	buckets := c.Categorize([]model.RawEntry{
		{Name: "[Тест] Quiz", Time: "10 Mar 2025 10:00:00 GMT+3"},
		{Name: "[Тест] Quiz", Time: "20 Apr 2025 18:30:00 GMT+3", URL: "https://example.com"},
	}, now)

	assert.Len(t, bucketOf(t, buckets, model.CategoryTest).Events, 2)
	assert.Empty(t, bucketOf(t, buckets, model.CategoryPrimary).Events)
}

func TestCategorize_DropsPastAndMalformed(t *testing.T) {
	c := newCategorizer()

	buckets := c.Categorize([]model.RawEntry{
		{Name: "Past", Time: "01 Mar 2025 11:59:59 GMT+3"},
		{Name: "Right now", Time: "01 Mar 2025 12:00:00 GMT+3"},
		{Name: "Broken", Time: "sometime next week"},
		{Name: "[Тест] Past quiz", Time: "01 Jan 2020 10:00:00 GMT+3"},
		{Name: "Future", Time: "02 Mar 2025 12:00:00 GMT+3"},
	}, now)

	assert.Equal(t, []string{"Right now", "Future"}, names(bucketOf(t, buckets, model.CategoryPrimary).Events))
	assert.Empty(t, bucketOf(t, buckets, model.CategoryTest).Events)

	for _, bucket := range buckets {
		for _, event := range bucket.Events {
			assert.False(t, event.Instant.Before(now), "%s is in the past", event.DisplayName)
		}
	}
}

func TestCategorize_StableSort(t *testing.T) {
	c := newCategorizer()

	buckets := c.Categorize([]model.RawEntry{
		{Name: "C", Time: "05 Mar 2025 10:00:00 GMT+3"},
		{Name: "A1", Time: "03 Mar 2025 10:00:00 GMT+3"},
		{Name: "B", Time: "04 Mar 2025 10:00:00 GMT+3"},
		{Name: "A2", Time: "03 Mar 2025 10:00:00 GMT+3"},
		{Name: "A3", Time: "03 Mar 2025 07:00:00 +0000"},
	}, now)

	assert.Equal(t, []string{"A1", "A2", "A3", "B", "C"}, names(bucketOf(t, buckets, model.CategoryPrimary).Events))
}

func TestCategorize_OrderFollowsTable(t *testing.T) {
	c := newCategorizer()

	buckets := c.Categorize(nil, now)

	keys := lo.Map(buckets, func(b Bucket, _ int) model.Category { return b.Spec.Key })
	assert.Equal(t, []model.Category{
		model.CategoryPrimary,
		model.CategoryTest,
		model.CategoryLecture,
		model.CategoryDefense,
		model.CategoryExam,
		model.CategoryConsultation,
		model.CategoryOther,
	}, keys)
	assert.Equal(t, model.CategoryPrimary, Primary(buckets).Spec.Key)
}

func TestEvent(t *testing.T) {
	c := newCategorizer()

	event, err := c.Event(model.RawEntry{Name: "[Экзамен] Calculus", Time: "10 Jun 2025 09:00:00 GMT+3", URL: " https://example.com/exam "})
	require.NoError(t, err)

	assert.Equal(t, "Calculus", event.DisplayName)
	assert.Equal(t, model.CategoryExam, event.Category)
	assert.Equal(t, "https://example.com/exam", event.Link)
	assert.Equal(t, 9, event.Instant.Hour())

	_, err = c.Event(model.RawEntry{Name: "x", Time: "nope"})
	assert.ErrorIs(t, err, timeparse.ErrMalformedTimestamp)
}
