package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/arismemo/quotation/internal/httpclient"
	"github.com/arismemo/quotation/internal/media"
	"github.com/arismemo/quotation/internal/prettify"
	"github.com/arismemo/quotation/internal/ratelimit"
	"github.com/arismemo/quotation/internal/toast"
)

const compressedToastDuration = 2 * time.Second

// UploadImage validates, compresses and uploads file. A file failing
// validation is reported with a toast and yields a nil result and a nil error.
func (s *Service) UploadImage(ctx context.Context, file media.File) (*UploadResult, error) {
	ctx, logger := s.begin(ctx, "upload")

	if result := s.validator.Validate(file); !result.Valid {
		s.toasts.Error(result.Error)
		logger.Info().Str("file", file.Name).Str("reason", result.Error).Msg("Rejected file")
		return nil, nil
	}

	s.loading.Show("处理图片中...", "正在压缩")

	upload := file
	if s.compressor != nil {
		compressed, err := s.compressor.Compress(file, s.compression)
		if err != nil {
			s.fail(logger, err, "上传失败", true)
			return nil, err
		}

		if compressed.Size() < file.Size() {
			_, _ = s.toasts.Show(
				fmt.Sprintf(
					"图片已压缩: %s → %s",
					prettify.FileSize(file.Size()),
					prettify.FileSize(compressed.Size()),
				),
				toast.SeverityInfo,
				compressedToastDuration,
			)
		}
		upload = compressed
	}

	s.loading.Update("上传中...", "请稍候")

	progress := ratelimit.NewThrottler(progressInterval, func(p [2]int64) {
		s.loading.Update(
			"上传中...",
			prettify.FileSize(p[0])+" / "+prettify.FileSize(p[1]),
		)
	})

	var out UploadResult
	err := s.client.Upload(
		ctx,
		"/api/upload/image",
		httpclient.FormFile{
			Field:       s.uploadField,
			Name:        upload.Name,
			ContentType: upload.ContentType,
			Data:        upload.Data,
		},
		func(sent, total int64) { progress.Call([2]int64{sent, total}) },
		&out,
	)
	if err != nil {
		s.fail(logger, err, "上传失败", true)
		return nil, err
	}

	s.loading.Hide()
	s.toasts.Success("上传成功！")
	logger.Info().Str("path", out.Path).Int64("size", upload.Size()).Msg("Uploaded image")
	return &out, nil
}
