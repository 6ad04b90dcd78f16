package animation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine/assets/loaders"
	"github.com/spaghettifunk/marionette/engine/math"
)

// Two joints on the file's y axis, which is the engine's z axis. The tip
// joint starts one unit from the root and the animation pulls it to two.
const barMesh = `
numJoints 2
numMeshes 1

joints {
	"root"	-1 ( 0 0 0 ) ( 0 0 0 )
	"tip"	0 ( 0 1 0 ) ( 0 0 0 )
}

mesh {
	shader "bar.png"

	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 1 ( 1 0 ) 1 1
	vert 2 ( 0 1 ) 2 2

	numtris 1
	tri 0 0 1 2

	numweights 4
	weight 0 0 1 ( 1 0 0 )
	weight 1 1 1 ( 1 0 0 )
	weight 2 0 0.5 ( 0 0 1 )
	weight 3 1 0.5 ( 0 0 1 )
}
`

const barAnim = `
numFrames 2
numJoints 2
frameRate 4
numAnimatedComponents 1

hierarchy {
	"root"	-1 0 0
	"tip"	0 2 0
}

bounds {
	( -1 -1 -1 ) ( 1 1 1 )
	( -1 -1 -1 ) ( 1 2 1 )
}

baseframe {
	( 0 0 0 ) ( 0 0 0 )
	( 0 1 0 ) ( 0 0 0 )
}

frame 0 {
	1
}

frame 1 {
	2
}
`

// A single joint spinning a quarter turn about the engine's y axis per
// frame, stored through the file's z component.
const spinAnim = `
numFrames 2
numJoints 1
frameRate 1
numAnimatedComponents 1

hierarchy {
	"root"	-1 32 0
}

bounds {
	( 0 0 0 ) ( 0 0 0 )
	( 0 0 0 ) ( 0 0 0 )
}

baseframe {
	( 0 0 0 ) ( 0 0 0 )
}

frame 0 {
	0
}

frame 1 {
	0.70710678
}
`

func barModel(t *testing.T) *Model {
	t.Helper()
	mesh, err := loaders.ParseMesh(strings.NewReader(barMesh), "bar.md5mesh")
	require.NoError(t, err)
	anim, err := loaders.ParseAnimation(strings.NewReader(barAnim), "bar.md5anim")
	require.NoError(t, err)
	model, err := NewModel(mesh, anim)
	require.NoError(t, err)
	return model
}

func assertVec3(t *testing.T, expected, actual math.Vec3) {
	t.Helper()
	require.InDelta(t, expected.X, actual.X, 1e-5, "x of %v", actual)
	require.InDelta(t, expected.Y, actual.Y, 1e-5, "y of %v", actual)
	require.InDelta(t, expected.Z, actual.Z, 1e-5, "z of %v", actual)
}
