package actions_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arismemo/quotation/internal/actions"
)

func loadFavoritesFixture(t *testing.T) []actions.Favorite {
	t.Helper()

	var favorites []actions.Favorite
	require.NoError(t, json.Unmarshal([]byte(favoritesJSON), &favorites))
	return favorites
}

func TestFilterFavorites(t *testing.T) {
	t.Parallel()

	favorites := loadFavoritesFixture(t)

	for _, tc := range []struct {
		keyword  string
		expected []int64
	}{
		{"", []int64{7, 8}},
		{"杯垫", []int64{7}},
		{"SENIOR", []int64{8}},
		{"未命名", []int64{8}},
		{"uploads/a.png", []int64{7}},
		{"nothing", []int64{}},
	} {
		t.Run(tc.keyword, func(t *testing.T) {
			t.Parallel()

			ids := []int64{}
			for _, favorite := range actions.FilterFavorites(favorites, tc.keyword) {
				ids = append(ids, favorite.ID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestFavoriteSearchAppliesTheLastKeyword(t *testing.T) {
	t.Parallel()

	var lock sync.Mutex
	var keywords []string
	var last []actions.Favorite

	search := actions.NewFavoriteSearch(
		loadFavoritesFixture(t),
		20*time.Millisecond,
		func(keyword string, matches []actions.Favorite) {
			lock.Lock()
			defer lock.Unlock()
			keywords = append(keywords, keyword)
			last = matches
		},
	)
	t.Cleanup(search.Cancel)

	search.Search("s")
	search.Search("se")
	search.Search("sen")

	require.Eventually(t, func() bool {
		lock.Lock()
		defer lock.Unlock()
		return len(keywords) == 1
	}, time.Second, 5*time.Millisecond)

	lock.Lock()
	defer lock.Unlock()
	assert.Equal(t, []string{"sen"}, keywords)
	require.Len(t, last, 1)
	assert.Equal(t, int64(8), last[0].ID)
}

func TestTimestampRejectsGarbage(t *testing.T) {
	t.Parallel()

	var ts actions.Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}
