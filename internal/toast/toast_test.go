package toast_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arismemo/quotation/internal/metrics"
	"github.com/arismemo/quotation/internal/toast"
)

type recorder struct {
	lock    sync.Mutex
	added   []string
	removed []string
}

func (r *recorder) Add(t toast.Toast) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.added = append(r.added, t.Message)
}

func (r *recorder) Remove(t toast.Toast) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.removed = append(r.removed, t.Message)
}

func (r *recorder) Removed() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.removed...)
}

func TestToastsStackAndExpire(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	manager := toast.NewManager(rec, 0, nil)
	t.Cleanup(manager.Close)

	_, err := manager.Show("short", toast.SeverityInfo, 20*time.Millisecond)
	require.NoError(t, err)
	_, err = manager.Show("sticky", toast.SeverityWarning, 0)
	require.NoError(t, err)

	active := manager.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "short", active[0].Message)
	assert.Equal(t, "sticky", active[1].Message)

	require.Eventually(t, func() bool {
		return len(manager.Active()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "sticky", manager.Active()[0].Message)
	assert.Equal(t, []string{"short"}, rec.Removed())
}

func TestUnknownSeverityIsRejected(t *testing.T) {
	t.Parallel()

	manager := toast.NewManager(nil, 0, nil)

	_, err := manager.Show("hello", toast.Severity("fatal"), time.Second)
	require.ErrorIs(t, err, toast.ErrUnknownSeverity)
	assert.Empty(t, manager.Active())
}

func TestDismiss(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	manager := toast.NewManager(rec, time.Hour, nil)
	t.Cleanup(manager.Close)

	first := manager.Success("收藏成功")
	manager.Error("删除失败")

	assert.True(t, manager.Dismiss(first.ID))
	assert.False(t, manager.Dismiss(first.ID))

	active := manager.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.SeverityError, active[0].Severity)
	assert.Equal(t, time.Hour, active[0].Duration)
	assert.Equal(t, []string{"收藏成功"}, rec.Removed())
}

func TestCloseStopsPendingRemovals(t *testing.T) {
	t.Parallel()

	manager := toast.NewManager(nil, 10*time.Millisecond, nil)
	manager.Info("kept")
	manager.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, manager.Active(), 1)
}

func TestToastsAreCounted(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	manager := toast.NewManager(nil, time.Hour, m)
	t.Cleanup(manager.Close)

	manager.Success("a")
	manager.Success("b")
	manager.Warning("c")

	assert.InDelta(t, 2, testutil.ToFloat64(m.Toasts.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Toasts.WithLabelValues("warning")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.Toasts.WithLabelValues("error")), 0)
}

func TestTerminalSink(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	manager := toast.NewManager(toast.NewTerminal(&out), time.Hour, nil)
	t.Cleanup(manager.Close)

	manager.Success("上传成功")
	manager.Error("网络连接失败，请检查网络")

	assert.Contains(t, out.String(), "✔ 上传成功")
	assert.Contains(t, out.String(), "✖ 网络连接失败，请检查网络")
}
