package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/arismemo/quotation/internal/teereader"
)

// FormFile is the single file part of a multipart upload.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Progress is called as the request body is consumed by the transport.
type Progress func(sent, total int64)

type progressWriter struct {
	sent     int64
	total    int64
	progress Progress
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.sent += int64(len(p))
	w.progress(w.sent, w.total)
	return len(p), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(file FormFile) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set(
		"Content-Disposition",
		fmt.Sprintf(
			`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.Field),
			quoteEscaper.Replace(file.Name),
		),
	)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// Upload posts file as multipart/form-data. The multipart content type is set
// here so it is never replaced by the JSON default.
func (c *Client) Upload(
	ctx context.Context,
	target string,
	file FormFile,
	progress Progress,
	out any,
) error {
	resolved, err := c.resolve(target)
	if err != nil {
		return newNetworkError(err)
	}

	payload, contentType, err := encodeMultipart(file)
	if err != nil {
		return fmt.Errorf("unable to encode upload: %w", err)
	}

	logger := c.loggerFor(ctx)
	total := int64(len(payload))
	var sink progressWriter
	sink.total = total
	sink.progress = progress
	if sink.progress == nil {
		sink.progress = func(int64, int64) {}
	}

	body := teereader.New(
		bytes.NewReader(payload),
		&sink,
		func(totalRead int64, readErr, writeErr error) error {
			if readErr != nil || writeErr != nil {
				logger.Warn().
					AnErr("readErr", readErr).
					AnErr("writeErr", writeErr).
					Msg("Upload body was not fully sent")
				return nil
			}
			logger.Debug().
				Str("file", file.Name).
				Int64("sent", totalRead).
				Int64("total", total).
				Msg("Upload body sent")
			return nil
		},
	)

	header := make(http.Header)
	header.Set("Content-Type", contentType)

	respPayload, err := c.do(ctx, resolved, RequestOptions{
		Method:        http.MethodPost,
		Header:        header,
		Body:          body,
		ContentLength: total,
	})
	if err != nil {
		return err
	}
	return decode(respPayload, out)
}
