package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Timestamp accepts RFC 3339 dates as well as the zone-less ISO dates the
// backend emits, which are read as local time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

type UploadResult struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Size     string `json:"size"`
}

type QuoteRequest struct {
	Length           float64 `json:"length"`
	Width            float64 `json:"width"`
	Thickness        float64 `json:"thickness"`
	ColorCount       int     `json:"color_count"`
	AreaRatio        float64 `json:"area_ratio"`
	DifficultyFactor float64 `json:"difficulty_factor"`
	OrderQuantity    int     `json:"order_quantity"`
	WorkerType       string  `json:"worker_type"`
	Debug            bool    `json:"debug"`
}

// Quote is the calculator output. Its shape depends on the backend version.
type Quote map[string]any

type HistoryItem struct {
	ID             int64          `json:"id"`
	WorkerType     string         `json:"worker_type"`
	UnitPrice      float64        `json:"unit_price"`
	TotalPrice     float64        `json:"total_price"`
	ComputedAt     Timestamp      `json:"computed_at"`
	RequestPayload map[string]any `json:"request_payload"`
	ResultPayload  map[string]any `json:"result_payload"`
	IsFavorited    bool           `json:"is_favorited"`
}

type HistoryQuery struct {
	Offset int
	Limit  int
}

func (q HistoryQuery) path() string {
	values := url.Values{}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(values) == 0 {
		return "/api/history"
	}
	return "/api/history?" + values.Encode()
}

type Favorite struct {
	ID        int64       `json:"id"`
	HistoryID int64       `json:"history_id"`
	Name      *string     `json:"name"`
	ImagePath *string     `json:"image_path"`
	CreatedAt Timestamp   `json:"created_at"`
	History   HistoryItem `json:"history"`
}

func (f Favorite) DisplayName() string {
	if f.Name == nil || *f.Name == "" {
		return defaultFavoriteName
	}
	return *f.Name
}

type BatchDeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

type AnalysisRequest struct {
	ImagePath string
	AreaRatio bool
	Colors    bool
	Method    string
}

// AnalysisResult holds one entry per requested analysis.
type AnalysisResult struct {
	Area   map[string]any `json:"area,omitempty"`
	Colors map[string]any `json:"colors,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}
