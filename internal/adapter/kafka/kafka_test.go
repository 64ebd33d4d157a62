package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, time.July, 1, 6, 0, 0, 0, time.UTC)
	d := domain.Decision{
		RunID: "run-1",
		Winner: domain.NewCandidate(domain.DayRecord{
			Day: 10, Temperature: 20, Wind: 5, Humidity: 40,
			Lightning: domain.LightningNo, Clouds: domain.CloudsStratus,
		}, "Sofia", 42.69),
		Report:     "Sofia, 10 July",
		ReportPath: "/data/LaunchAnalysisReport.csv",
		Cities:     3,
		Candidates: 2,
		DecidedAt:  now,
	}

	msg, err := serializeToMessage(d)
	require.NoError(t, err)

	assert.Equal(t, []byte("run-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"report":"Sofia, 10 July"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("Sofia"), msg.Headers[0].Value)
	assert.Equal(t, "decided_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "Sofia", body["winner"].(map[string]any)["location"])
}

func TestPublisher_Channel(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "launch-decisions", nil)
	defer p.Close()
	assert.Equal(t, "kafka", p.Channel())
}
