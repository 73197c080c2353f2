package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"llm_events", "ask_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"ask", "ask", "chat"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-haiku-4-5-20251001",
			Purpose:      purpose,
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    800,
			Success:      true,
			RequestBody:  "[user]\nhello\n",
			ResponseBody: `{"explanation":"hi"}`,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events with limit, got %d", len(events))
	}
	// Newest first.
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("expected descending sequence, got %d then %d", events[0].Sequence, events[1].Sequence)
	}
	if events[0].Purpose != "chat" {
		t.Errorf("newest purpose = %q, want %q", events[0].Purpose, "chat")
	}
	if events[0].ResponseBody != `{"explanation":"hi"}` {
		t.Errorf("response body = %q", events[0].ResponseBody)
	}
	if !events[0].Success {
		t.Error("expected success")
	}
}

func TestQueryLLMEventsAfterSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "ask", Success: true})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after sequence 2, got %d", len(events))
	}
	for _, e := range events {
		if e.Sequence <= 2 {
			t.Errorf("event sequence %d should be > 2", e.Sequence)
		}
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "ask",
		Success:      false,
		ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event")
	}
	if e.ErrorMessage != "rate limited" {
		t.Errorf("error message = %q", e.ErrorMessage)
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []LLMRequestEventData{
		{Purpose: "ask", Model: "m1", InputTokens: 100, OutputTokens: 40, LatencyMs: 100, Success: true},
		{Purpose: "ask", Model: "m1", InputTokens: 200, OutputTokens: 60, LatencyMs: 300, Success: true},
		{Purpose: "chat", Model: "m2", InputTokens: 50, OutputTokens: 10, LatencyMs: 200, Success: true},
	}
	for i, data := range appends {
		if err := repo.AppendLLMRequest(ctx, data); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purpose rows, got %d", len(byPurpose))
	}
	// "ask" has the most calls, so it sorts first.
	if byPurpose[0].Purpose != "ask" || byPurpose[0].Calls != 2 {
		t.Errorf("row[0] = %+v", byPurpose[0])
	}
	if byPurpose[0].InputTokens != 300 || byPurpose[0].OutputTokens != 100 {
		t.Errorf("ask tokens = %d in / %d out", byPurpose[0].InputTokens, byPurpose[0].OutputTokens)
	}
	if byPurpose[0].AvgLatencyMs != 200 {
		t.Errorf("ask avg latency = %d, want 200", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("expected 2 model rows, got %d", len(byModel))
	}
	if byModel[0].Model != "m1" || byModel[0].InputTokens != 300 {
		t.Errorf("row[0] = %+v", byModel[0])
	}
}

func TestAppendAskAndStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []AskEventData{
		{SessionID: "s1", Mode: "eli5", WantRoadmap: false, Degraded: false, LatencyMs: 100},
		{SessionID: "s1", Mode: "eli5", WantRoadmap: true, Degraded: true, RoadmapSteps: 0, LatencyMs: 300},
		{SessionID: "s2", Mode: "expert", WantRoadmap: true, RoadmapSteps: 7, LatencyMs: 500},
	}
	for i, data := range appends {
		if err := repo.AppendAsk(ctx, data); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryAskEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Mode != "expert" || events[0].RoadmapSteps != 7 {
		t.Errorf("newest event = %+v", events[0])
	}

	stats, err := repo.AskStatsByMode(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 mode rows, got %d", len(stats))
	}
	if stats[0].Mode != "eli5" || stats[0].Count != 2 {
		t.Errorf("row[0] = %+v", stats[0])
	}
	if stats[0].Degraded != 1 || stats[0].WithRoadmap != 1 {
		t.Errorf("eli5 degraded = %d, with roadmap = %d", stats[0].Degraded, stats[0].WithRoadmap)
	}
	if stats[0].AvgLatencyMs != 200 {
		t.Errorf("eli5 avg latency = %d, want 200", stats[0].AvgLatencyMs)
	}
}
