package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	File  string `arg:"file" validate:"required"`
	Batch int    `arg:"batch" validate:"min=1"`
	Store string `json:"store" validate:"omitempty,oneof=db api"`
}

func TestDescribe(t *testing.T) {
	err := Validate(&sample{Batch: 0, Store: "s3"})
	require.Error(t, err)

	assert.Equal(t, "missing required: file; invalid: batch (min=1), store (oneof=db api)", Describe(err))
}

func TestDescribe_Valid(t *testing.T) {
	assert.NoError(t, Validate(&sample{File: "ar.geojson", Batch: 100}))
}

func TestDescribe_NonValidationError(t *testing.T) {
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
