package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, PDF, MapExtToFormat(".PDF"))
	assert.Equal(t, IMAGE, MapExtToFormat("jpeg"))
	assert.Equal(t, IMAGE, MapExtToFormat(".png"))
	assert.Equal(t, "", MapExtToFormat(".heic"))
}

func TestIsAllowedExt(t *testing.T) {
	t.Parallel()
	assert.True(t, IsAllowedExt(".Jpg"))
	assert.False(t, IsAllowedExt(".exe"))
	assert.False(t, IsAllowedExt(""))
}
