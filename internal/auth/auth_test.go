package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderProvider(t *testing.T) {
	var p Provider = HeaderProvider{}

	_, ok := p.CurrentUserID(context.Background())
	assert.False(t, ok)

	_, ok = p.CurrentUserID(WithUserID(context.Background(), "   "))
	assert.False(t, ok)

	id, ok := p.CurrentUserID(WithUserID(context.Background(), " u1 "))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
