package remote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/spaghettifunk/marionette/engine/math"
)

// State is what a peer shares about one actor: how far its clock moved and
// where it stands.
type State struct {
	Instance    uuid.UUID
	DeltaTime   float32
	Translation math.Vec3
}

const (
	fieldSeparator  = ","
	recordSeparator = "|"
)

// Encode renders s as "<id>,<dt>,<x>,<y>,<z>".
func (s State) Encode() string {
	var b strings.Builder
	b.WriteString(s.Instance.String())
	for _, f := range []float32{s.DeltaTime, s.Translation.X, s.Translation.Y, s.Translation.Z} {
		b.WriteString(fieldSeparator)
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	return b.String()
}

// Decode parses a single record. The id may be omitted, in which case the
// record reads "<dt>,<x>,<y>,<z>" and Instance is uuid.Nil.
func Decode(record string) (State, error) {
	fields := strings.Split(strings.TrimSpace(record), fieldSeparator)

	var s State
	switch len(fields) {
	case 5:
		id, err := uuid.Parse(fields[0])
		if err != nil {
			return State{}, fmt.Errorf("decoding state %q: %w", record, err)
		}
		s.Instance = id
		fields = fields[1:]
	case 4:
	default:
		return State{}, fmt.Errorf("decoding state %q: expected 4 or 5 fields, found %d", record, len(fields))
	}

	var values [4]float32
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return State{}, fmt.Errorf("decoding state %q: field %d: %w", record, i, err)
		}
		values[i] = float32(v)
	}
	s.DeltaTime = values[0]
	s.Translation = math.NewVec3(values[1], values[2], values[3])
	return s, nil
}

// EncodeBatch joins several states into one message, each record
// terminated by "|".
func EncodeBatch(states []State) string {
	var b strings.Builder
	for _, s := range states {
		b.WriteString(s.Encode())
		b.WriteString(recordSeparator)
	}
	return b.String()
}

// DecodeBatch splits a message produced by EncodeBatch. Empty records are
// skipped; the first malformed one aborts decoding.
func DecodeBatch(message string) ([]State, error) {
	var states []State
	for _, record := range strings.Split(message, recordSeparator) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		s, err := Decode(record)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}
