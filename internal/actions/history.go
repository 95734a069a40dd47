package actions

import (
	"context"
	"strconv"
)

func (s *Service) LoadHistory(ctx context.Context, query HistoryQuery) ([]HistoryItem, error) {
	ctx, logger := s.begin(ctx, "load-history")

	var out []HistoryItem
	if err := s.client.Get(ctx, query.path(), true, &out); err != nil {
		s.fail(logger, err, "加载历史记录失败", false)
		return nil, err
	}
	return out, nil
}

// BatchDeleteHistory asks for confirmation, then deletes every id. It reports
// whether anything was deleted.
func (s *Service) BatchDeleteHistory(ctx context.Context, ids []int64) bool {
	ctx, logger := s.begin(ctx, "batch-delete-history")

	if len(ids) == 0 {
		s.toasts.Warning("请选择要删除的记录")
		return false
	}

	count := strconv.Itoa(len(ids))
	if !s.confirm("确认删除 " + count + " 条记录？") {
		return false
	}

	s.loading.Show("删除中...", "正在删除 "+count+" 条记录")

	var out BatchDeleteResult
	err := s.client.Post(
		ctx,
		"/api/history/batch-delete",
		map[string][]int64{"history_ids": ids},
		&out,
	)
	if err != nil {
		s.fail(logger, err, "批量删除失败", true)
		return false
	}

	s.client.ClearCache()
	s.loading.Hide()

	message := out.Message
	if message == "" {
		message = "成功删除 " + strconv.Itoa(out.DeletedCount) + " 条记录"
	}
	s.toasts.Success(message)
	return true
}
