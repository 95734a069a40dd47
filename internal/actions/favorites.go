package actions

import (
	"context"
	"strconv"
)

func favoritePath(id int64) string {
	return "/api/favorites/" + strconv.FormatInt(id, 10)
}

func (s *Service) LoadFavorites(ctx context.Context) ([]Favorite, error) {
	ctx, logger := s.begin(ctx, "load-favorites")

	favorites, err := s.favorites(ctx)
	if err != nil {
		s.fail(logger, err, "加载收藏失败", false)
		return nil, err
	}
	return favorites, nil
}

func (s *Service) favorites(ctx context.Context) ([]Favorite, error) {
	var out []Favorite
	if err := s.client.Get(ctx, "/api/favorites", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleFavorite removes the favorite pointing at historyID when favorited is
// set, and creates one otherwise. It reports whether the call succeeded.
func (s *Service) ToggleFavorite(ctx context.Context, historyID int64, favorited bool) bool {
	ctx, logger := s.begin(ctx, "toggle-favorite")

	s.loading.Show("处理中...", "")

	success := ""
	if favorited {
		favorites, err := s.favorites(ctx)
		if err != nil {
			s.fail(logger, err, "操作失败", true)
			return false
		}

		for _, favorite := range favorites {
			if favorite.HistoryID != historyID {
				continue
			}
			if err := s.client.Delete(ctx, favoritePath(favorite.ID), nil); err != nil {
				s.fail(logger, err, "操作失败", true)
				return false
			}
			success = "已取消收藏"
			break
		}
	} else {
		err := s.client.Post(
			ctx,
			"/api/favorites",
			map[string]any{"history_id": historyID, "name": defaultFavoriteName},
			nil,
		)
		if err != nil {
			s.fail(logger, err, "操作失败", true)
			return false
		}
		success = "收藏成功"
	}

	s.client.ClearCache()
	s.loading.Hide()
	if success != "" {
		s.toasts.Success(success)
	}
	return true
}

func (s *Service) RemoveFavorite(ctx context.Context, id int64) bool {
	ctx, logger := s.begin(ctx, "remove-favorite")

	if !s.confirm("确认删除该收藏？") {
		return false
	}

	s.loading.Show("删除中...", "")

	if err := s.client.Delete(ctx, favoritePath(id), nil); err != nil {
		s.fail(logger, err, "删除失败", true)
		return false
	}

	s.client.ClearCache()
	s.loading.Hide()
	s.toasts.Success("删除成功")
	return true
}

// SaveFavoriteNote renames a favorite and attaches an image to it. Empty
// values are sent as null.
func (s *Service) SaveFavoriteNote(ctx context.Context, id int64, name, imagePath string) bool {
	ctx, logger := s.begin(ctx, "save-favorite-note")

	s.loading.Show("保存中...", "")

	err := s.client.Put(
		ctx,
		favoritePath(id),
		map[string]*string{"name": nullable(name), "image_path": nullable(imagePath)},
		nil,
	)
	if err != nil {
		s.fail(logger, err, "保存失败", true)
		return false
	}

	s.client.ClearCache()
	s.loading.Hide()
	s.toasts.Success("保存成功")
	return true
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
