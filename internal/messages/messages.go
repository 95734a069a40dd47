// Package messages holds the user-facing sentences shown for logical error
// codes and HTTP status codes.
package messages

import (
	"fmt"
	"strconv"

	"github.com/arismemo/quotation/internal/config"
)

type Code string

const (
	FileTooLarge  Code = "FILE_TOO_LARGE"
	InvalidFormat Code = "INVALID_FORMAT"
	InvalidImage  Code = "INVALID_IMAGE"
	NetworkError  Code = "NETWORK_ERROR"
	Timeout       Code = "TIMEOUT"
	ServerError   Code = "SERVER_ERROR"
	Canceled      Code = "CANCELED"
	InvalidBody   Code = "INVALID_BODY"
)

var table = map[Code]string{
	FileTooLarge:  fmt.Sprintf("文件大小超过限制（最大%dMB）", config.MaxUploadSize/(1024*1024)),
	InvalidFormat: "不支持的文件格式",
	InvalidImage:  "无效的图片文件",
	NetworkError:  "网络连接失败，请检查网络",
	Timeout:       "请求超时，请重试",
	ServerError:   "服务器错误，请稍后重试",
	Canceled:      "请求已取消",
	InvalidBody:   "请求数据无效",
	"413":         "文件大小超过服务器限制（10MB）",
	"400":         "请求参数错误",
	"401":         "未登录或登录已过期",
	"403":         "无权限访问",
	"404":         "请求的资源不存在",
	"500":         "服务器内部错误",
	"503":         "服务暂时不可用",
	"504":         "请求超时",
}

// Get returns the sentence for code, or the empty string if the code is
// unknown.
func Get(code Code) string {
	return table[code]
}

// ForStatus returns the sentence mapped to an HTTP status code and whether
// the status is part of the table.
func ForStatus(status int) (string, bool) {
	msg, ok := table[Code(strconv.Itoa(status))]
	return msg, ok
}

// ForStatusOrDefault falls back to the SERVER_ERROR sentence for unmapped
// statuses.
func ForStatusOrDefault(status int) string {
	if msg, ok := ForStatus(status); ok {
		return msg
	}
	return table[ServerError]
}
