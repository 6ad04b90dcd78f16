package loaders

import (
	"fmt"
	"io"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// ParseMesh reads a .md5mesh document. path is only used for error reporting.
func ParseMesh(r io.Reader, path string) (*resources.MeshDocument, error) {
	lx, err := newLexer(r, path)
	if err != nil {
		return nil, err
	}

	doc := &resources.MeshDocument{Path: path}
	numJoints, numMeshes := -1, -1

	for lx.atKind(tokenWord) && !lx.atWord("joints") && !lx.atWord("mesh") {
		key := lx.peek()
		lx.next()
		switch key.text {
		case "MD5Version":
			if doc.Version, err = lx.int("version number"); err != nil {
				return nil, err
			}
		case "commandline":
			if doc.CommandLine, err = lx.quoted("quoted command line"); err != nil {
				return nil, err
			}
		case "numJoints":
			if numJoints, err = lx.count("numJoints value"); err != nil {
				return nil, err
			}
		case "numMeshes":
			if numMeshes, err = lx.count("numMeshes value"); err != nil {
				return nil, err
			}
		default:
			return nil, lx.errorf(key.line, "header field", key.text)
		}
	}
	if numJoints < 0 {
		return nil, lx.unexpected(`"numJoints"`)
	}
	if numMeshes < 0 {
		return nil, lx.unexpected(`"numMeshes"`)
	}

	if err := parseJoints(lx, doc, numJoints); err != nil {
		return nil, err
	}

	for lx.atWord("mesh") {
		mesh, err := parseMeshBlock(lx)
		if err != nil {
			return nil, err
		}
		doc.Meshes = append(doc.Meshes, *mesh)
	}
	if !lx.atKind(tokenEOF) {
		return nil, lx.unexpected(`"mesh" or end of file`)
	}
	if len(doc.Meshes) != numMeshes {
		return nil, &core.IntegrityError{Path: path, Section: "numMeshes", Declared: numMeshes, Actual: len(doc.Meshes)}
	}

	if err := validateMeshDocument(path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseJoints(lx *lexer, doc *resources.MeshDocument, declared int) error {
	if err := lx.expectWord("joints"); err != nil {
		return err
	}
	if err := lx.openBrace(); err != nil {
		return err
	}

	doc.Joints = make([]resources.Joint, 0, declared)
	for lx.atKind(tokenString) {
		name, _ := lx.quoted("joint name")
		parent, err := lx.int("parent index")
		if err != nil {
			return err
		}
		position, err := lx.vec3("joint position")
		if err != nil {
			return err
		}
		orientation, err := lx.quat("joint orientation")
		if err != nil {
			return err
		}
		doc.Joints = append(doc.Joints, resources.Joint{
			Name:        name,
			Parent:      parent,
			Position:    position,
			Orientation: orientation,
		})
	}
	if err := lx.closeBrace(); err != nil {
		return err
	}
	if len(doc.Joints) != declared {
		return &core.IntegrityError{Path: lx.path, Section: "numJoints", Declared: declared, Actual: len(doc.Joints)}
	}
	return nil
}

func parseMeshBlock(lx *lexer) (*resources.Mesh, error) {
	mesh := &resources.Mesh{}

	if err := lx.expectWord("mesh"); err != nil {
		return nil, err
	}
	if err := lx.openBrace(); err != nil {
		return nil, err
	}

	if err := lx.expectWord("shader"); err != nil {
		return nil, err
	}
	shader, err := lx.quoted("quoted shader name")
	if err != nil {
		return nil, err
	}
	mesh.Shader = shader

	err = readRecords(lx, "numverts", "vert", func(int) error {
		uv, err := lx.vec2("texture coordinate")
		if err != nil {
			return err
		}
		start, err := lx.int("start weight")
		if err != nil {
			return err
		}
		count, err := lx.count("weight count")
		if err != nil {
			return err
		}
		mesh.Vertices = append(mesh.Vertices, resources.Vertex{
			Texcoord:    uv,
			StartWeight: start,
			CountWeight: count,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readRecords(lx, "numtris", "tri", func(int) error {
		var tri resources.Triangle
		for k := 0; k < 3; k++ {
			t := lx.peek()
			v, err := lx.int("vertex index")
			if err != nil {
				return err
			}
			if v < 0 || v >= len(mesh.Vertices) {
				return &core.ReferenceError{Path: lx.path, Kind: fmt.Sprintf("triangle vertex (line %d)", t.line), Index: v, Limit: len(mesh.Vertices)}
			}
			tri.Indices[k] = uint32(v)
		}
		mesh.Triangles = append(mesh.Triangles, tri)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readRecords(lx, "numweights", "weight", func(int) error {
		joint, err := lx.int("joint index")
		if err != nil {
			return err
		}
		bias, err := lx.float("weight bias")
		if err != nil {
			return err
		}
		position, err := lx.vec3("weight position")
		if err != nil {
			return err
		}
		mesh.Weights = append(mesh.Weights, resources.Weight{
			Joint:    joint,
			Bias:     bias,
			Position: position,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := lx.closeBrace(); err != nil {
		return nil, err
	}

	mesh.Indices = make([]uint32, 0, len(mesh.Triangles)*3)
	for _, tri := range mesh.Triangles {
		mesh.Indices = append(mesh.Indices, tri.Indices[:]...)
	}
	return mesh, nil
}

// readRecords consumes "<countKey> N" followed by indexed "<keyword> i ..."
// records, calling fn after the keyword and index of each one. Records beyond
// or short of the declared count are reported as an IntegrityError.
func readRecords(lx *lexer, countKey, keyword string, fn func(i int) error) error {
	if err := lx.expectWord(countKey); err != nil {
		return err
	}
	declared, err := lx.count(countKey + " value")
	if err != nil {
		return err
	}

	read := 0
	for lx.atWord(keyword) {
		lx.next()
		t := lx.peek()
		idx, err := lx.int(keyword + " index")
		if err != nil {
			return err
		}
		if idx != read {
			return lx.errorf(t.line, fmt.Sprintf("%s index %d", keyword, read), t.text)
		}
		if err := fn(read); err != nil {
			return err
		}
		read++
	}
	if read != declared {
		return &core.IntegrityError{Path: lx.path, Section: countKey, Declared: declared, Actual: read}
	}
	return nil
}

// validateMeshDocument rejects any index that would otherwise be read out of
// bounds while building the bind pose or skinning.
func validateMeshDocument(path string, doc *resources.MeshDocument) error {
	for i, j := range doc.Joints {
		if j.Parent < -1 || j.Parent >= i {
			return &core.ReferenceError{Path: path, Kind: fmt.Sprintf("joint %q parent", j.Name), Index: j.Parent, Limit: i}
		}
	}
	for m := range doc.Meshes {
		mesh := &doc.Meshes[m]
		for w, weight := range mesh.Weights {
			if weight.Joint < 0 || weight.Joint >= len(doc.Joints) {
				return &core.ReferenceError{Path: path, Kind: fmt.Sprintf("mesh %d weight %d joint", m, w), Index: weight.Joint, Limit: len(doc.Joints)}
			}
		}
		for v, vert := range mesh.Vertices {
			// Compared without summing, a start near MaxInt would wrap.
			if vert.StartWeight < 0 || vert.StartWeight > len(mesh.Weights) {
				return &core.ReferenceError{Path: path, Kind: fmt.Sprintf("mesh %d vertex %d weight", m, v), Index: vert.StartWeight, Limit: len(mesh.Weights)}
			}
			if vert.CountWeight > len(mesh.Weights)-vert.StartWeight {
				index := vert.CountWeight
				if vert.CountWeight <= len(mesh.Weights) {
					index = vert.StartWeight + vert.CountWeight - 1
				}
				return &core.ReferenceError{Path: path, Kind: fmt.Sprintf("mesh %d vertex %d weight", m, v), Index: index, Limit: len(mesh.Weights)}
			}
		}
	}
	return nil
}
