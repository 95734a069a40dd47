package main

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arismemo/quotation/internal/testutils"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCanGetVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "(devel)", getVersion())
}

func TestCanLoadSpecifiedConfig(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "quotation.yaml", "base_url: https://quote.example.test\nlog:\n  level: debug")

	c, configNotExist, err := loadConfig("", envFrom(map[string]string{"QUOTATION_CONFIG_PATH": path}))

	require.NoError(t, err)
	assert.False(t, configNotExist)
	assert.Equal(t, "https://quote.example.test", c.BaseURL.String())
	assert.Equal(t, "debug", c.Log.Level)
}

func TestExplicitConfigPathWins(t *testing.T) {
	t.Parallel()

	explicit := writeFile(t, "explicit.toml", "base_url = \"https://explicit.example.test\"\n")
	fromEnv := writeFile(t, "env.yaml", "base_url: https://env.example.test\n")

	c, _, err := loadConfig(explicit, envFrom(map[string]string{"QUOTATION_CONFIG_PATH": fromEnv}))

	require.NoError(t, err)
	assert.Equal(t, "https://explicit.example.test", c.BaseURL.String())
}

func TestFailsIfSpecifiedConfigDoesNotExist(t *testing.T) {
	t.Parallel()

	_, _, err := loadConfig("", envFrom(map[string]string{
		"QUOTATION_CONFIG_PATH": filepath.Join(t.TempDir(), "quotation.yaml"),
	}))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFallsBackToDefaultConfig(t *testing.T) {
	t.Parallel()

	c, configNotExist, err := loadConfig("", envFrom(map[string]string{
		"QUOTATION_BASE_URL": "http://backend.example.test:9000",
	}))

	require.NoError(t, err)
	assert.True(t, configNotExist)
	assert.Equal(t, "http://backend.example.test:9000", c.BaseURL.String())
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, env map[string]string, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd, closeApp := newRootCommand(envFrom(env), strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	require.NoError(t, closeApp())
	return result{stdout.String(), stderr.String(), err}
}

func newBackend(t *testing.T, counter *testutils.RequestCounter) map[string]string {
	t.Helper()

	mux := http.NewServeMux()
	routes := map[string]string{
		"GET /api/health":            `{"status": "ok"}`,
		"GET /api/history":           `[{"id": 12, "worker_type": "standard", "unit_price": 1.5, "total_price": 150, "computed_at": "2024-03-05T10:00:00", "is_favorited": true}]`,
		"GET /api/favorites":         `[{"id": 7, "history_id": 12, "name": "红色杯垫", "created_at": "2024-03-05T10:00:00", "history": {"id": 12, "worker_type": "standard", "total_price": 150, "computed_at": "2024-03-05T10:00:00"}}]`,
		"DELETE /api/favorites/{id}": `{"message": "收藏已取消"}`,
		"POST /api/upload/image":     `{"path": "/static/uploads/abc.png", "filename": "abc.png", "size": "68"}`,
	}
	for pattern, body := range routes {
		mux.Handle(pattern, counter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}), pattern))
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return map[string]string{
		"QUOTATION_BASE_URL":    server.URL,
		"QUOTATION_CONFIG_PATH": writeFile(t, "quotation.yaml", "log:\n  level: warn\n"),
	}
}

func TestHealthCommand(t *testing.T) {
	t.Parallel()

	res := run(t, newBackend(t, testutils.NewRequestCounter()), "", "health")

	require.NoError(t, res.err)
	assert.Equal(t, "ok\n", res.stdout)
}

func TestHealthCommandFailsWhenBackendIsDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	res := run(t, map[string]string{
		"QUOTATION_BASE_URL":    server.URL,
		"QUOTATION_CONFIG_PATH": writeFile(t, "quotation.yaml", "log:\n  level: warn\n"),
	}, "", "health")

	require.Error(t, res.err)
	assert.Equal(t, "网络连接失败，请检查网络", res.err.Error())
}

func TestConfigCommandRedactsTheSession(t *testing.T) {
	t.Parallel()

	env := newBackend(t, testutils.NewRequestCounter())
	env["QUOTATION_SESSION"] = "super-secret"

	res := run(t, env, "", "config")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "base_url: "+env["QUOTATION_BASE_URL"])
	assert.Contains(t, res.stdout, "session: xxxxx")
	assert.NotContains(t, res.stdout, "super-secret")
}

func TestHistoryListCommand(t *testing.T) {
	t.Parallel()

	res := run(t, newBackend(t, testutils.NewRequestCounter()), "", "history", "list", "--limit", "5")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "12")
	assert.Contains(t, res.stdout, "2024-03-05 10:00:00")
	assert.Contains(t, res.stdout, "150.00")
	assert.Contains(t, res.stdout, "★")
}

func TestFavoritesListCommandSearch(t *testing.T) {
	t.Parallel()

	env := newBackend(t, testutils.NewRequestCounter())

	res := run(t, env, "", "favorites", "list", "--search", "杯垫")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "红色杯垫")

	res = run(t, env, "", "favorites", "list", "--search", "nothing")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "暂无收藏")
}

func TestRemoveFavoriteAsksForConfirmation(t *testing.T) {
	t.Parallel()

	counter := testutils.NewRequestCounter()
	env := newBackend(t, counter)

	res := run(t, env, "n\n", "favorites", "remove", "7")
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "确认删除该收藏？ [y/N]")
	assert.Equal(t, 0, counter.Count("DELETE /api/favorites/{id}"))

	res = run(t, env, "", "favorites", "remove", "7", "--yes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "删除成功")
	assert.Equal(t, 1, counter.Count("DELETE /api/favorites/{id}"))
}

func TestQuoteCommandValidatesInput(t *testing.T) {
	t.Parallel()

	res := run(
		t,
		newBackend(t, testutils.NewRequestCounter()),
		"",
		"quote", "--length", "10", "--width", "abc", "--thickness", "1", "--area-ratio", "2",
	)

	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "宽度必须是数字")
	assert.Contains(t, res.stderr, "占用面积比例不能大于1")
}

func TestUploadCommandWritesMetrics(t *testing.T) {
	t.Parallel()

	counter := testutils.NewRequestCounter()
	env := newBackend(t, counter)
	metricsFile := filepath.Join(t.TempDir(), "quotation.prom")
	env["QUOTATION_METRICS_FILE"] = metricsFile

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	imagePath := writeFile(t, "sample.png", buf.String())

	res := run(t, env, "", "upload", imagePath)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "path: /static/uploads/abc.png")
	assert.Contains(t, res.stderr, "上传成功！")
	assert.Equal(t, 1, counter.Count("POST /api/upload/image"))

	content, err := os.ReadFile(metricsFile) //nolint:gosec
	require.NoError(t, err)
	assert.Contains(t, string(content), `quotation_http_requests_total{method="POST",outcome="success"} 1`)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	env := newBackend(t, testutils.NewRequestCounter())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	res := run(t, env, "", "validate", writeFile(t, "ok.png", buf.String()))
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "ok.png 可以上传")

	res = run(t, env, "", "validate", writeFile(t, "notes.txt", "hello"))
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "不支持的文件格式")
}
