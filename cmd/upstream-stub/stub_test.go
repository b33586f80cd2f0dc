package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"solution-gateway/solution/domain"
	"solution-gateway/solution/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// O stub precisa falar o mesmo protocolo que o HTTPUpstream entende.
func TestStub_SpeaksUpstreamProtocol(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "99.cpp"), []byte("int main(){}"), 0o600))

	srv := httptest.NewServer(newStub(1, dir, zap.NewNop()))
	defer srv.Close()

	up, err := infra.NewHTTPUpstream(srv.URL+"/solution-requests.php", infra.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	o := up.Lookup(ctx, domain.LookupRequest{Identity: "u1", QuestionID: "99"})
	require.True(t, o.OK())
	assert.Equal(t, "int main(){}", o.Solution)

	o = up.Lookup(ctx, domain.LookupRequest{Identity: "u1", QuestionID: "99"})
	assert.Equal(t, domain.OutcomeLogicalFailure, o.Kind)
	assert.Equal(t, "Daily limit reached for this user", o.Message)

	o = up.Lookup(ctx, domain.LookupRequest{Identity: "u2", QuestionID: "missing"})
	assert.Equal(t, domain.OutcomeLogicalFailure, o.Kind)
	assert.Equal(t, "Solution not found", o.Message)

	o = up.Lookup(ctx, domain.LookupRequest{Identity: "u3", QuestionID: "1"})
	assert.True(t, o.OK())
}
