package core

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	fileErr := fmt.Errorf("loading model: %w", &FileError{Path: "boy.md5mesh", Err: fs.ErrNotExist})
	assert.ErrorIs(t, fileErr, ErrFile)
	assert.ErrorIs(t, fileErr, fs.ErrNotExist)
	assert.NotErrorIs(t, fileErr, ErrParse)

	parseErr := error(&ParseError{Path: "boy.md5mesh", Line: 12, Expected: "'{'", Found: "mesh"})
	assert.ErrorIs(t, parseErr, ErrParse)
	assert.Equal(t, `boy.md5mesh:12: expected '{', found "mesh"`, parseErr.Error())

	integrityErr := fmt.Errorf("wrapped: %w", &IntegrityError{Path: "a", Section: "numverts", Declared: 4, Actual: 3})
	var ie *IntegrityError
	require.True(t, errors.As(integrityErr, &ie))
	assert.Equal(t, 4, ie.Declared)
	assert.Equal(t, 3, ie.Actual)
	assert.ErrorIs(t, integrityErr, ErrIntegrity)

	refErr := error(&ReferenceError{Path: "a", Kind: "weight joint", Index: 7, Limit: 2})
	assert.ErrorIs(t, refErr, ErrReference)
	assert.Contains(t, refErr.Error(), "weight joint index 7")
}
