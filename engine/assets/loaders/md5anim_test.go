package loaders

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

func TestParseAnimation(t *testing.T) {
	doc, err := ParseAnimation(strings.NewReader(readFixture(t, "bar.md5anim")), "bar.md5anim")
	require.NoError(t, err)

	assert.Equal(t, 4, doc.FrameRate)
	assert.Equal(t, 1, doc.NumAnimatedComponents)

	require.Len(t, doc.Hierarchy, 2)
	tip := doc.Hierarchy[1]
	assert.Equal(t, "tip", tip.Name)
	assert.Equal(t, 0, tip.Parent)
	assert.Equal(t, resources.FlagPositionZ, tip.Flags)
	assert.Equal(t, 1, tip.AnimatedCount())
	assert.Equal(t, 0, doc.Hierarchy[0].AnimatedCount())

	require.Len(t, doc.Bounds, 2)
	assert.Equal(t, math.NewVec3(1, 1, 2), doc.Bounds[1].Max)

	require.Len(t, doc.BaseFrame, 2)
	assert.Equal(t, math.NewVec3(0, 0, 1), doc.BaseFrame[1].Position)

	require.Len(t, doc.Frames, 2)
	assert.Equal(t, 1, doc.Frames[1].Index)
	assert.Equal(t, []float32{2}, doc.Frames[1].Parameters)
}

func TestParseAnimationIntegrity(t *testing.T) {
	src := readFixture(t, "bar.md5anim")

	tests := []struct {
		name      string
		old, repl string
		section   string
		declared  int
		actual    int
	}{
		{"missing frame", "numFrames 2", "numFrames 3", "bounds", 3, 2},
		{"extra parameter", "frame 1 {\n\t2\n}", "frame 1 {\n\t2 3\n}", "frame 1", 1, 2},
		{"hierarchy short", "numJoints 2", "numJoints 3", "hierarchy", 3, 2},
		{"missing baseframe entry", "\t( 0 1 0 ) ( 0 0 0 )\n", "", "baseframe", 2, 1},
		{"frame block missing", "frame 1 {\n\t2\n}", "", "numFrames", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnimation(strings.NewReader(mutate(t, src, tt.old, tt.repl)), "bar.md5anim")
			require.ErrorIs(t, err, core.ErrIntegrity)

			var ie *core.IntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.section, ie.Section)
			assert.Equal(t, tt.declared, ie.Declared)
			assert.Equal(t, tt.actual, ie.Actual)
		})
	}
}

func TestParseAnimationErrors(t *testing.T) {
	src := readFixture(t, "bar.md5anim")

	tests := []struct {
		name      string
		old, repl string
		target    error
	}{
		{"zero frame rate", "frameRate 4", "frameRate 0", core.ErrParse},
		{"missing header count", "numAnimatedComponents 1\n", "", core.ErrParse},
		{"flags out of range", `"tip"	0 2 0`, `"tip"	0 64 0`, core.ErrParse},
		{"missing bounds", "bounds {", "bounds", core.ErrParse},
		{"frame out of order", "frame 1 {", "frame 2 {", core.ErrParse},
		{"start index overflow", `"tip"	0 2 0`, `"tip"	0 2 1`, core.ErrReference},
		{"start index near max int", `"tip"	0 2 0`, `"tip"	0 2 9223372036854775807`, core.ErrReference},
		{"forward parent", `"tip"	0 2 0`, `"tip"	1 2 0`, core.ErrReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseAnimation(strings.NewReader(mutate(t, src, tt.old, tt.repl)), "bar.md5anim")
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestAnimationLoader(t *testing.T) {
	al := &AnimationLoader{}

	res, err := al.Load("testdata/bar.md5anim", resources.ResourceTypeMD5Anim, nil)
	require.NoError(t, err)
	assert.Equal(t, "bar", res.Name)
	doc, ok := res.Data.(*resources.AnimationDocument)
	require.True(t, ok)
	assert.Equal(t, "testdata/bar.md5anim", doc.Path)

	_, err = al.Load("testdata/missing.md5anim", resources.ResourceTypeMD5Anim, nil)
	assert.ErrorIs(t, err, core.ErrFile)
}
