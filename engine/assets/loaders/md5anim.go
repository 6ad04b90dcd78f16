package loaders

import (
	"fmt"
	"io"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/resources"
)

type animHeader struct {
	numFrames             int
	numJoints             int
	frameRate             int
	numAnimatedComponents int
}

// ParseAnimation reads a .md5anim document. path is only used for error reporting.
func ParseAnimation(r io.Reader, path string) (*resources.AnimationDocument, error) {
	lx, err := newLexer(r, path)
	if err != nil {
		return nil, err
	}

	doc := &resources.AnimationDocument{Path: path}
	h := animHeader{-1, -1, -1, -1}

	for lx.atKind(tokenWord) && !lx.atWord("hierarchy") {
		key := lx.peek()
		lx.next()
		switch key.text {
		case "MD5Version":
			doc.Version, err = lx.int("version number")
		case "commandline":
			doc.CommandLine, err = lx.quoted("quoted command line")
		case "numFrames":
			h.numFrames, err = lx.positive("numFrames value")
		case "numJoints":
			h.numJoints, err = lx.count("numJoints value")
		case "frameRate":
			h.frameRate, err = lx.positive("frameRate value")
		case "numAnimatedComponents":
			h.numAnimatedComponents, err = lx.count("numAnimatedComponents value")
		default:
			return nil, lx.errorf(key.line, "header field", key.text)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"numFrames", h.numFrames},
		{"numJoints", h.numJoints},
		{"frameRate", h.frameRate},
		{"numAnimatedComponents", h.numAnimatedComponents},
	} {
		if f.value < 0 {
			return nil, lx.unexpected(fmt.Sprintf("%q", f.name))
		}
	}
	doc.FrameRate = h.frameRate
	doc.NumAnimatedComponents = h.numAnimatedComponents

	if err := parseHierarchy(lx, doc, h); err != nil {
		return nil, err
	}
	if err := parseBounds(lx, doc, h); err != nil {
		return nil, err
	}
	if err := parseBaseFrame(lx, doc, h); err != nil {
		return nil, err
	}

	for lx.atWord("frame") {
		if err := parseFrame(lx, doc, h); err != nil {
			return nil, err
		}
	}
	if !lx.atKind(tokenEOF) {
		return nil, lx.unexpected(`"frame" or end of file`)
	}
	if len(doc.Frames) != h.numFrames {
		return nil, &core.IntegrityError{Path: path, Section: "numFrames", Declared: h.numFrames, Actual: len(doc.Frames)}
	}
	return doc, nil
}

func parseHierarchy(lx *lexer, doc *resources.AnimationDocument, h animHeader) error {
	if err := lx.expectWord("hierarchy"); err != nil {
		return err
	}
	if err := lx.openBrace(); err != nil {
		return err
	}

	doc.Hierarchy = make([]resources.HierarchyEntry, 0, h.numJoints)
	for lx.atKind(tokenString) {
		name, _ := lx.quoted("joint name")
		parent, err := lx.int("parent index")
		if err != nil {
			return err
		}
		ft := lx.peek()
		flags, err := lx.int("hierarchy flags")
		if err != nil {
			return err
		}
		if flags < 0 || flags > int(resources.FlagAllAnimated) {
			return lx.errorf(ft.line, "hierarchy flags in [0, 63]", ft.text)
		}
		start, err := lx.count("start index")
		if err != nil {
			return err
		}

		entry := resources.HierarchyEntry{
			Name:       name,
			Parent:     parent,
			Flags:      uint8(flags),
			StartIndex: start,
		}
		i := len(doc.Hierarchy)
		if parent < -1 || parent >= i {
			return &core.ReferenceError{Path: lx.path, Kind: fmt.Sprintf("joint %q parent", name), Index: parent, Limit: i}
		}
		if n := entry.AnimatedCount(); start > h.numAnimatedComponents-n {
			index := start
			if start <= h.numAnimatedComponents {
				index = start + n - 1
			}
			return &core.ReferenceError{Path: lx.path, Kind: fmt.Sprintf("joint %q animated component", name), Index: index, Limit: h.numAnimatedComponents}
		}
		doc.Hierarchy = append(doc.Hierarchy, entry)
	}
	if err := lx.closeBrace(); err != nil {
		return err
	}
	if len(doc.Hierarchy) != h.numJoints {
		return &core.IntegrityError{Path: lx.path, Section: "hierarchy", Declared: h.numJoints, Actual: len(doc.Hierarchy)}
	}
	return nil
}

func parseBounds(lx *lexer, doc *resources.AnimationDocument, h animHeader) error {
	if err := lx.expectWord("bounds"); err != nil {
		return err
	}
	if err := lx.openBrace(); err != nil {
		return err
	}

	doc.Bounds = make([]resources.Bound, 0, h.numFrames)
	for lx.atKind(tokenOpenParen) {
		lo, err := lx.vec3("bound minimum")
		if err != nil {
			return err
		}
		hi, err := lx.vec3("bound maximum")
		if err != nil {
			return err
		}
		doc.Bounds = append(doc.Bounds, resources.Bound{Min: lo, Max: hi})
	}
	if err := lx.closeBrace(); err != nil {
		return err
	}
	if len(doc.Bounds) != h.numFrames {
		return &core.IntegrityError{Path: lx.path, Section: "bounds", Declared: h.numFrames, Actual: len(doc.Bounds)}
	}
	return nil
}

func parseBaseFrame(lx *lexer, doc *resources.AnimationDocument, h animHeader) error {
	if err := lx.expectWord("baseframe"); err != nil {
		return err
	}
	if err := lx.openBrace(); err != nil {
		return err
	}

	doc.BaseFrame = make([]resources.BasePose, 0, h.numJoints)
	for lx.atKind(tokenOpenParen) {
		position, err := lx.vec3("base position")
		if err != nil {
			return err
		}
		orientation, err := lx.quat("base orientation")
		if err != nil {
			return err
		}
		doc.BaseFrame = append(doc.BaseFrame, resources.BasePose{Position: position, Orientation: orientation})
	}
	if err := lx.closeBrace(); err != nil {
		return err
	}
	if len(doc.BaseFrame) != h.numJoints {
		return &core.IntegrityError{Path: lx.path, Section: "baseframe", Declared: h.numJoints, Actual: len(doc.BaseFrame)}
	}
	return nil
}

func parseFrame(lx *lexer, doc *resources.AnimationDocument, h animHeader) error {
	if err := lx.expectWord("frame"); err != nil {
		return err
	}
	t := lx.peek()
	index, err := lx.int("frame index")
	if err != nil {
		return err
	}
	if want := len(doc.Frames); index != want {
		return lx.errorf(t.line, fmt.Sprintf("frame index %d", want), t.text)
	}
	if err := lx.openBrace(); err != nil {
		return err
	}

	params := make([]float32, 0, h.numAnimatedComponents)
	for lx.atKind(tokenWord) {
		v, err := lx.float("frame parameter")
		if err != nil {
			return err
		}
		params = append(params, v)
	}
	if err := lx.closeBrace(); err != nil {
		return err
	}
	if len(params) != h.numAnimatedComponents {
		return &core.IntegrityError{Path: lx.path, Section: fmt.Sprintf("frame %d", index), Declared: h.numAnimatedComponents, Actual: len(params)}
	}

	doc.Frames = append(doc.Frames, resources.Frame{Index: index, Parameters: params})
	return nil
}
