package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// EncodeCoords serializes a coordinate set as "x,y x,y ..." in sorted order.
// Sorting keeps the encoding stable so identical sets always store the same
// text.
func EncodeCoords(set walkgen.CoordSet) string {
	parts := make([]string, 0, set.Len())
	for _, c := range set.Sorted() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// DecodeCoords parses the EncodeCoords format back into a set
func DecodeCoords(encoded string) (walkgen.CoordSet, error) {
	set := walkgen.NewCoordSet()

	for _, part := range strings.Fields(encoded) {
		xy := strings.Split(part, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed coordinate %q", part)
		}

		x, err := strconv.Atoi(xy[0])
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q: %w", part, err)
		}

		y, err := strconv.Atoi(xy[1])
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q: %w", part, err)
		}

		set.Add(walkgen.Coord{X: x, Y: y})
	}

	return set, nil
}
