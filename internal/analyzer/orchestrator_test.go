package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// roleScript builds a completer that answers per prompt kind, keyed on
// distinctive fragments of each role's system prompt.
func roleScript(market, financial, risk, synthesis func() (string, error)) completerFunc {
	return func(ctx context.Context, system, _ string, _ float32) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch {
		case strings.Contains(system, "market research analyst"):
			return market()
		case strings.Contains(system, "finance executive"):
			return financial()
		case strings.Contains(system, "risk assessment specialist"):
			return risk()
		case strings.Contains(system, "head of greenlighting"):
			return synthesis()
		}
		return "", errors.New("unexpected prompt")
	}
}

func say(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func fail(msg string) func() (string, error) {
	return func() (string, error) { return "", errors.New(msg) }
}

const (
	goText   = "RECOMMENDATION: GO\nCONFIDENCE: 80%"
	noGoText = "RECOMMENDATION: NO-GO\nCONFIDENCE: 70%"
)

func TestAnalyzeAllAgentsSucceed(t *testing.T) {
	llm := roleScript(
		say(goText), say(goText), say(goText),
		say("Executive Summary\nStrong project across every dimension of the evaluation.\n\nRECOMMENDATION: GO\nCONFIDENCE: 82%"),
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, Go, agg.Recommendation)
	assert.InDelta(t, 0.82, agg.Confidence, 1e-9)
	assert.NotEmpty(t, agg.RunID)
	assert.True(t, agg.Synthesized)
	assert.NotEmpty(t, agg.Summary)
	require.Len(t, agg.Results, 3)
	for _, r := range agg.Results {
		assert.Equal(t, Succeeded, r.Status)
		assert.Equal(t, Go, r.Recommendation)
		assert.InDelta(t, 0.8, r.Confidence, 1e-9)
	}
}

func TestAnalyzeResultsKeepDispatchOrder(t *testing.T) {
	llm := roleScript(say(goText), say(goText), say(goText), say(goText))
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)

	require.Len(t, agg.Results, len(Roles))
	for i, role := range Roles {
		assert.Equal(t, role, agg.Results[i].Role)
	}
}

func TestAnalyzeToleratesSingleFailure(t *testing.T) {
	llm := roleScript(
		say(goText), say(goText), fail("inference timeout"),
		say("RECOMMENDATION: GO\nCONFIDENCE: 75%"),
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, Go, agg.Recommendation)
	require.Len(t, agg.Results, 3)

	var failed int
	for _, r := range agg.Results {
		if r.Status == Failed {
			failed++
			assert.Equal(t, RiskAnalysis, r.Role)
			assert.Contains(t, r.Narrative, "inference timeout")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestAnalyzeAllAgentsFail(t *testing.T) {
	llm := roleScript(
		fail("timeout"), fail("timeout"), fail("timeout"),
		say(goText),
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	assert.Nil(t, agg)
	assert.ErrorIs(t, err, ErrNoSuccessfulAgents)
}

func TestAnalyzeSynthesisFailureFallsBackToVote(t *testing.T) {
	llm := roleScript(
		say(goText), say(goText), say(noGoText),
		fail("synthesis unavailable"),
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, Go, agg.Recommendation)
	assert.False(t, agg.Synthesized)
	assert.Contains(t, agg.Summary, "majority vote")
	// Mean of 0.8, 0.8, 0.7.
	assert.InDelta(t, 0.7667, agg.Confidence, 0.001)
}

func TestFallbackVoteTieBreaksTowardNoGo(t *testing.T) {
	llm := roleScript(
		say(goText), say(noGoText), fail("timeout"),
		fail("synthesis unavailable"),
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, NoGo, agg.Recommendation)
	assert.False(t, agg.Synthesized)
}

func TestAnalyzeSynthesisConfidenceFallsBackToMean(t *testing.T) {
	llm := roleScript(
		say(goText), say(goText), say(goText),
		say("RECOMMENDATION: GO"), // no confidence figure
	)
	o := NewOrchestrator(llm, nil, zap.NewNop(), time.Minute)

	agg, err := o.Analyze(context.Background(), testRequest)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, agg.Confidence, 1e-9)
}

func TestAnalyzeInvalidRequest(t *testing.T) {
	o := NewOrchestrator(roleScript(say(goText), say(goText), say(goText), say(goText)), nil, zap.NewNop(), time.Minute)

	for _, req := range []ProjectRequest{
		{Budget: 1000, Genre: "Drama", Platform: "streaming"},                              // no description
		{Description: "x", Budget: 0, Genre: "Drama", Platform: "streaming"},               // zero budget
		{Description: "x", Budget: -5, Genre: "Drama", Platform: "streaming"},              // negative budget
		{Description: "x", Budget: 1000, Genre: "Drama", Platform: "broadcast-television"}, // bad platform
	} {
		_, err := o.Analyze(context.Background(), req)
		assert.Error(t, err, "%+v", req)
		assert.NotErrorIs(t, err, ErrNoSuccessfulAgents)
	}
}

func TestAnalyzeTerminatesWithHungInference(t *testing.T) {
	hang := completerFunc(func(ctx context.Context, _, _ string, _ float32) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(hang, nil, zap.NewNop(), 30*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := o.Analyze(context.Background(), testRequest)
		assert.ErrorIs(t, err, ErrNoSuccessfulAgents)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Analyze did not terminate within its timeout bounds")
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	hang := completerFunc(func(ctx context.Context, _, _ string, _ float32) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(hang, nil, zap.NewNop(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := o.Analyze(ctx, testRequest)
		assert.Error(t, err)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not unwind in-flight subagents")
	}
}
