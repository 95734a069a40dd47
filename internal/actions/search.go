package actions

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arismemo/quotation/internal/ratelimit"
)

// FilterFavorites keeps the favorites whose visible fields contain keyword,
// ignoring case. An empty keyword keeps everything.
func FilterFavorites(favorites []Favorite, keyword string) []Favorite {
	keyword = strings.ToLower(keyword)

	kept := make([]Favorite, 0, len(favorites))
	for _, favorite := range favorites {
		if strings.Contains(searchText(favorite), keyword) {
			kept = append(kept, favorite)
		}
	}
	return kept
}

func searchText(f Favorite) string {
	parts := []string{
		f.DisplayName(),
		strconv.FormatInt(f.ID, 10),
		strconv.FormatInt(f.HistoryID, 10),
		f.History.WorkerType,
		strconv.FormatFloat(f.History.UnitPrice, 'f', -1, 64),
		strconv.FormatFloat(f.History.TotalPrice, 'f', -1, 64),
	}
	if f.ImagePath != nil {
		parts = append(parts, *f.ImagePath)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// FavoriteSearch filters a favorites list as the keyword is typed. Only the
// last keyword of a burst is applied.
type FavoriteSearch struct {
	debouncer *ratelimit.Debouncer[string]

	lock      sync.Mutex
	favorites []Favorite
}

func NewFavoriteSearch(
	favorites []Favorite,
	delay time.Duration,
	onResult func(keyword string, matches []Favorite),
) *FavoriteSearch {
	search := &FavoriteSearch{favorites: favorites}
	search.debouncer = ratelimit.NewDebouncer(delay, func(keyword string) {
		search.lock.Lock()
		matches := FilterFavorites(search.favorites, keyword)
		search.lock.Unlock()

		onResult(keyword, matches)
	})
	return search
}

func (s *FavoriteSearch) Search(keyword string) {
	s.debouncer.Call(keyword)
}

// Replace swaps the searched list, for instance after a reload.
func (s *FavoriteSearch) Replace(favorites []Favorite) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.favorites = favorites
}

func (s *FavoriteSearch) Cancel() {
	s.debouncer.Cancel()
}
