package actions

import (
	"context"
)

func (s *Service) CalculateQuote(ctx context.Context, req QuoteRequest) (Quote, error) {
	ctx, logger := s.begin(ctx, "quote")

	if req.WorkerType == "" {
		req.WorkerType = "standard"
	}

	s.loading.Show("计算中...", "请稍候")

	var out Quote
	if err := s.client.Post(ctx, "/api/quote", req, &out); err != nil {
		s.fail(logger, err, "计算失败", true)
		return nil, err
	}

	s.loading.Hide()
	return out, nil
}

// CheckHealth reports whether the backend answers. Failures are returned, not
// shown.
func (s *Service) CheckHealth(ctx context.Context) (Health, error) {
	ctx, _ = s.begin(ctx, "health")

	var out Health
	err := s.client.Get(ctx, "/api/health", false, &out)
	return out, err
}
