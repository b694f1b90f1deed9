package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("allowed_users.exists", nil))

	cause := errors.New("connection refused")
	err := Wrap("allowed_users.exists", cause)

	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "allowed_users.exists", storeErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store allowed_users.exists: connection refused", err.Error())
}
