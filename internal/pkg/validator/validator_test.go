package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type roadsRequest struct {
	IDs []int64 `validate:"road_ids"`
}

func TestValidate_RoadIDs(t *testing.T) {
	assert.NoError(t, Validate(&roadsRequest{IDs: []int64{0, 5, 9}}))
	assert.NoError(t, Validate(&roadsRequest{}))
	assert.Error(t, Validate(&roadsRequest{IDs: []int64{5, -1}}))
}
