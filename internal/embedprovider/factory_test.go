package embedprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_ReturnsWorkingLazyProvider(t *testing.T) {
	t.Parallel()

	p := NewProvider("any-model-id", 16)
	require.NotNil(t, p)

	ctx := context.Background()
	require.NoError(t, p.Initialize(ctx))

	assert.Equal(t, "any-model-id", p.ModelID())
	assert.Equal(t, 16, p.Dimensions())

	vec, err := p.EmbedQuery(ctx, "query text")
	require.NoError(t, err)
	assert.Len(t, vec, 16)
}
