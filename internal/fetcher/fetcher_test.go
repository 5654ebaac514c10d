package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	entries []model.RawEntry
	err     error
	calls   int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Fetch(context.Context) ([]model.RawEntry, error) {
	s.calls++
	return s.entries, s.err
}

func TestFetcher_Fetch(t *testing.T) {
	src := &fakeSource{entries: []model.RawEntry{
		{Name: "Homework 1", Time: "01 Jan 2099 23:59:59 GMT+3"},
		{Name: "[Тест] Midterm", Time: "02 Jan 2099 23:59:59 GMT+3"},
	}}

	got, err := NewFetcher(src, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.entries, got)
	assert.Equal(t, 1, src.calls)
}

func TestFetcher_FetchFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("502 Bad Gateway")}

	got, err := NewFetcher(src, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Contains(t, err.Error(), "502 Bad Gateway")
	assert.Nil(t, got)
}

func TestFetcher_FilterKeywords(t *testing.T) {
	src := &fakeSource{entries: []model.RawEntry{
		{Name: "Homework 1"},
		{Name: "[Консультация] Physics"},
		{Name: "[Тест] Optional quiz"},
		{Name: "Lab 2"},
	}}

	got, err := NewFetcher(src, []string{" консультация ", "OPTIONAL", ""}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.RawEntry{{Name: "Homework 1"}, {Name: "Lab 2"}}, got)
}

func TestEntryTags(t *testing.T) {
	assert.Equal(t, []string{"тест", "доп"}, entryTags("[тест] [доп] quiz"))
	assert.Nil(t, entryTags("quiz [тест]"))
	assert.Nil(t, entryTags("[broken quiz"))
}
