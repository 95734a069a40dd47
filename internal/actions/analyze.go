package actions

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

func (s *Service) analysisTimeoutFor(method string) time.Duration {
	if method == slowMethod {
		return s.analysisTimeout
	}
	return s.analysisFastTimeout
}

// AnalyzeImage runs the requested analyses concurrently. The first failure
// cancels the others.
func (s *Service) AnalyzeImage(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	ctx, logger := s.begin(ctx, "analyze")

	if req.Method == "" {
		req.Method = defaultMethod
	}
	timeout := s.analysisTimeoutFor(req.Method)
	body := map[string]string{"image_path": req.ImagePath, "method": req.Method}

	s.loading.Show("分析中...", "请耐心等待")

	var result AnalysisResult
	group, groupCtx := errgroup.WithContext(ctx)
	if req.AreaRatio {
		group.Go(func() error {
			return s.client.PostWithTimeout(groupCtx, "/api/analyze/area-ratio", body, timeout, &result.Area)
		})
	}
	if req.Colors {
		group.Go(func() error {
			return s.client.PostWithTimeout(groupCtx, "/api/analyze/colors", body, timeout, &result.Colors)
		})
	}

	if err := group.Wait(); err != nil {
		s.fail(logger, err, "图像分析失败", true)
		return nil, err
	}

	s.loading.Hide()
	logger.Debug().
		Str("method", req.Method).
		Dur("timeout", timeout).
		Bool("area", req.AreaRatio).
		Bool("colors", req.Colors).
		Msg("Analysis done")
	return &result, nil
}
