package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string

	// RequestBody and ResponseBody hold the full payloads when body
	// capture is enabled, otherwise empty.
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMPurposeUsage aggregates LLM usage per purpose label.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage per model, for cost estimation.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AskEventData captures the outcome of a single ask pipeline run.
type AskEventData struct {
	SessionID    string
	Mode         string
	WantRoadmap  bool
	Degraded     bool
	RoadmapSteps int
	LatencyMs    int64
}

// AskEvent is a stored ask event.
type AskEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	Mode         string
	WantRoadmap  bool
	Degraded     bool
	RoadmapSteps int
	LatencyMs    int64
}

// AskModeStats aggregates ask outcomes per explanation mode.
type AskModeStats struct {
	Mode         string
	Count        int
	Degraded     int
	WithRoadmap  int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates token usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendAsk records an ask pipeline outcome.
	AppendAsk(ctx context.Context, data AskEventData) error

	// QueryAskEvents returns ask events, newest first.
	QueryAskEvents(ctx context.Context, opts QueryOpts) ([]AskEvent, error)

	// AskStatsByMode aggregates ask outcomes grouped by mode.
	AskStatsByMode(ctx context.Context) ([]AskModeStats, error)
}
