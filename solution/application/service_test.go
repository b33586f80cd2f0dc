package application

import (
	"context"
	"os"
	"testing"

	"solution-gateway/solution/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_Lookup_RendersFirstSuccess(t *testing.T) {
	up := &scriptedUpstream{byID: map[domain.Identity]domain.Outcome{
		"u1": domain.TransportFailure("connection reset"),
		"u2": domain.LogicalFailure("not found"),
		"u3": domain.Success("int main(){}"),
	}}
	r := &fakeRenderer{}
	stats := &recordingStats{}
	svc := Service{
		Source:   &staticSource{pool: domain.IdentityPool{"u1", "u2", "u3"}},
		Fetcher:  Fetcher{Upstream: up, Rand: keepOrder{}},
		Renderer: r,
		Stats:    stats,
	}

	out, err := svc.Lookup(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "<pre>int main(){}</pre>", out.Markup)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, "int main(){}", r.got)
	assert.Equal(t, DefaultLanguage, r.lang)
	assert.Equal(t, 3, up.Calls())
	assert.Contains(t, stats.Kinds(), domain.StatsRendered)
}

func TestService_Lookup_MissingQuestionSkipsPoolAndUpstream(t *testing.T) {
	src := &staticSource{pool: domain.IdentityPool{"u1"}}
	up := &scriptedUpstream{}
	svc := Service{Source: src, Fetcher: Fetcher{Upstream: up}, Renderer: &fakeRenderer{}}

	_, err := svc.Lookup(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrMissingParameter)
	assert.Zero(t, src.loads)
	assert.Zero(t, up.Calls())
}

func TestService_Lookup_EmptyPoolMakesNoCalls(t *testing.T) {
	up := &scriptedUpstream{}
	svc := Service{
		Source:   &staticSource{err: &domain.EmptyPoolError{Source: "user_ids.txt"}},
		Fetcher:  Fetcher{Upstream: up},
		Renderer: &fakeRenderer{},
	}

	_, err := svc.Lookup(context.Background(), "42")
	require.ErrorIs(t, err, domain.ErrEmptyPool)
	assert.Zero(t, up.Calls())
}

func TestService_Lookup_SourceErrorPropagates(t *testing.T) {
	svc := Service{
		Source:   &staticSource{err: os.ErrNotExist},
		Fetcher:  Fetcher{Upstream: &scriptedUpstream{}},
		Renderer: &fakeRenderer{},
	}

	_, err := svc.Lookup(context.Background(), "42")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestService_Lookup_RenderErrorIsNotRetried(t *testing.T) {
	up := &scriptedUpstream{byID: map[domain.Identity]domain.Outcome{
		"u1": domain.Success("code"),
		"u2": domain.Success("code"),
	}}
	svc := Service{
		Source:   &staticSource{pool: domain.IdentityPool{"u1", "u2"}},
		Fetcher:  Fetcher{Upstream: up, Rand: keepOrder{}},
		Renderer: &fakeRenderer{err: errBoom},
		Language: "go",
	}

	_, err := svc.Lookup(context.Background(), "42")
	require.ErrorIs(t, err, domain.ErrRender)
	assert.Equal(t, 1, up.Calls())
}

func TestService_Lookup_LogsRenderedStatsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	up := &scriptedUpstream{byID: map[domain.Identity]domain.Outcome{"u1": domain.Success("code")}}
	svc := Service{
		Source:   &staticSource{pool: domain.IdentityPool{"u1"}},
		Fetcher:  Fetcher{Upstream: up},
		Renderer: &fakeRenderer{},
		Stats:    &recordingStats{err: errBoom},
		Logger:   zap.New(core),
	}

	_, err := svc.Lookup(context.Background(), "42")
	require.NoError(t, err)

	// um para a tentativa com sucesso e um para o evento rendered
	failed := logs.FilterMessage("stats record failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, errBoom.Error(), failed[1].ContextMap()["error"])
}
