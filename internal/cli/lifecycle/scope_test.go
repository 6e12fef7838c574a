package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_BeginInvalidatesPreviousToken(t *testing.T) {
	var s Scope

	ctx1, tok1 := s.Begin(context.Background())
	assert.True(t, tok1.Live())
	assert.NoError(t, ctx1.Err())

	ctx2, tok2 := s.Begin(context.Background())
	assert.False(t, tok1.Live(), "older token must be invalidated")
	assert.True(t, tok2.Live())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "older context must be cancelled")
	assert.NoError(t, ctx2.Err())
}

func TestScope_StaleResponseDroppedByIdentity(t *testing.T) {
	var s Scope

	// Request 1 starts, request 2 supersedes it, then request 1's
	// response "arrives" after request 2's. Only tok2 may apply.
	_, tok1 := s.Begin(context.Background())
	_, tok2 := s.Begin(context.Background())

	assert.True(t, tok2.Live())
	assert.False(t, tok1.Live())

	// Still true in reverse resolution order.
	assert.False(t, tok1.Live())
	assert.True(t, tok2.Live())
}

func TestScope_CloseSuppressesAllTokens(t *testing.T) {
	var s Scope

	ctx, tok := s.Begin(context.Background())
	s.Close()

	assert.False(t, tok.Live())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestScope_BeginAfterClose(t *testing.T) {
	var s Scope

	s.Close()
	ctx, tok := s.Begin(context.Background())

	require.NotNil(t, tok)
	assert.False(t, tok.Live(), "closed scope must hand out dead tokens")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestScope_ParentCancellationPropagates(t *testing.T) {
	var s Scope

	parent, cancel := context.WithCancel(context.Background())
	ctx, tok := s.Begin(parent)
	cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	// The token stays live: parent cancellation aborts the transfer but
	// identity only changes on Begin/Close.
	assert.True(t, tok.Live())
}
