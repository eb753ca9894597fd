package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidator(t *testing.T) {
	t.Parallel()
	v := EnumValidator("processing", "completed", "failed")
	assert.NoError(t, v("completed"))
	err := v("done")
	assert.EqualError(t, err, `value "done" is not one of [processing, completed, failed]`)
	assert.Error(t, v(""))
}
