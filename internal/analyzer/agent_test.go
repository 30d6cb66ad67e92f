package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greenlight/internal/tmdb"
)

// stubCompleter scripts inference responses per call and records the
// prompts it received.
type stubCompleter struct {
	mu      sync.Mutex
	respond func(system, user string) (string, error)
	systems []string
	users   []string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string, _ float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	s.mu.Unlock()
	return s.respond(system, user)
}

// stubMetadata scripts metadata lookups.
type stubMetadata struct {
	search  func(title string) ([]tmdb.Record, error)
	details func(id int) (tmdb.Record, error)
}

func (s *stubMetadata) SearchMovie(_ context.Context, title string) ([]tmdb.Record, error) {
	return s.search(title)
}

func (s *stubMetadata) MovieDetails(_ context.Context, id int) (tmdb.Record, error) {
	return s.details(id)
}

var testRequest = ProjectRequest{
	Description:    "A survival drama about a stranded arctic research crew",
	Budget:         20_000_000,
	Genre:          "Drama",
	Platform:       "streaming",
	Comparables:    []string{"The Martian"},
	TargetAudience: "adults 18-49",
}

const goResponse = "Solid prospects across the board.\n\nRECOMMENDATION: GO\nCONFIDENCE: 80%"

func goCompleter() *stubCompleter {
	return &stubCompleter{respond: func(string, string) (string, error) { return goResponse, nil }}
}

func TestSubagentRunSuccess(t *testing.T) {
	llm := goCompleter()
	agent := NewSubagent(MarketResearch, llm, nil, zap.NewNop(), time.Minute)

	result := agent.Run(context.Background(), testRequest)

	assert.Equal(t, MarketResearch, result.Role)
	assert.Equal(t, Succeeded, result.Status)
	assert.Equal(t, Go, result.Recommendation)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Equal(t, goResponse, result.Raw)
	assert.Greater(t, result.Elapsed, time.Duration(0))
}

func TestSubagentRunInferenceFailure(t *testing.T) {
	llm := &stubCompleter{respond: func(string, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	agent := NewSubagent(RiskAnalysis, llm, nil, zap.NewNop(), time.Minute)

	result := agent.Run(context.Background(), testRequest)

	assert.Equal(t, Failed, result.Status)
	assert.Equal(t, Unknown, result.Recommendation)
	assert.Zero(t, result.Confidence)
	assert.Contains(t, result.Narrative, "connection refused")
}

func TestSubagentRunTimesOut(t *testing.T) {
	slow := completerFunc(func(ctx context.Context, _, _ string, _ float32) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			return goResponse, nil
		}
	})
	agent := NewSubagent(MarketResearch, slow, nil, zap.NewNop(), 20*time.Millisecond)

	start := time.Now()
	result := agent.Run(context.Background(), testRequest)

	assert.Equal(t, Failed, result.Status)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, result.Narrative, "deadline")
}

type completerFunc func(ctx context.Context, system, user string, temperature float32) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	return f(ctx, system, user, temperature)
}

func TestSubagentEnrichesPromptWithMetadata(t *testing.T) {
	llm := goCompleter()
	meta := &stubMetadata{
		search: func(title string) ([]tmdb.Record, error) {
			return []tmdb.Record{{ID: 286217, Title: title}}, nil
		},
		details: func(id int) (tmdb.Record, error) {
			return tmdb.Record{
				ID: id, Title: "The Martian", Year: "2015",
				Budget: 108_000_000, Revenue: 630_600_000, Rating: 7.7,
			}, nil
		},
	}
	agent := NewSubagent(MarketResearch, llm, meta, zap.NewNop(), time.Minute)

	result := agent.Run(context.Background(), testRequest)

	require.Equal(t, Succeeded, result.Status)
	require.Len(t, llm.users, 1)
	assert.Contains(t, llm.users[0], "The Martian (2015)")
	assert.Contains(t, llm.users[0], "revenue $630600000")
}

func TestSubagentMetadataFailureIsNonFatal(t *testing.T) {
	llm := goCompleter()
	meta := &stubMetadata{
		search: func(string) ([]tmdb.Record, error) {
			return nil, tmdb.ErrUnavailable
		},
		details: func(int) (tmdb.Record, error) {
			return tmdb.Record{}, tmdb.ErrUnavailable
		},
	}
	agent := NewSubagent(MarketResearch, llm, meta, zap.NewNop(), time.Minute)

	result := agent.Run(context.Background(), testRequest)

	assert.Equal(t, Succeeded, result.Status)
	require.Len(t, llm.users, 1)
	assert.NotContains(t, llm.users[0], "Historical data")
}

func TestSubagentRoleTemplates(t *testing.T) {
	for _, role := range Roles {
		llm := goCompleter()
		agent := NewSubagent(role, llm, nil, zap.NewNop(), time.Minute)

		result := agent.Run(context.Background(), testRequest)
		require.Equal(t, Succeeded, result.Status, role)
		require.Len(t, llm.users, 1)
		assert.Contains(t, llm.users[0], testRequest.Description, role)
	}
}

func TestFinancialAgentEmbedsBaseline(t *testing.T) {
	llm := goCompleter()
	agent := NewSubagent(FinancialModel, llm, nil, zap.NewNop(), time.Minute)

	agent.Run(context.Background(), testRequest)

	require.Len(t, llm.users, 1)
	assert.Contains(t, llm.users[0], "Estimated new subscribers")
}
