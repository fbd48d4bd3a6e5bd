package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "appeals:", nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "listing:director", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "listing:director", []string{"APP-2025-002"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "listing:*"))
	n, err := repo.Incr(ctx, "listing-generation")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "appeals:listing:director", repo.Key("listing:director"))
}
