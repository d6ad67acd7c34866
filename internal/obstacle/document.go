package obstacle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lastmile-route/routeplanner/internal/types"
	"github.com/paulmach/orb"
)

// rawDocument mirrors the on-disk OSM-style obstacle source format (spec
// §6): a flat elements array mixing node and way records. Grounded on
// original_source/river_detection.py's load_rivers/load_highways, which
// decode the identical shape.
type rawDocument struct {
	Elements []rawElement `json:"elements"`
}

type rawElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat,omitempty"`
	Lon   float64           `json:"lon,omitempty"`
	Nodes []int64           `json:"nodes,omitempty"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// riverTags and highwayTags are the filter sets from spec §4.2.
var riverTags = map[string]bool{"river": true, "stream": true, "canal": true}
var highwayTags = map[string]bool{"motorway": true, "trunk": true, "motorway_link": true}

func isRiverWay(tags map[string]string) bool {
	return riverTags[tags["waterway"]]
}

func isHighwayWay(tags map[string]string) bool {
	return highwayTags[tags["highway"]]
}

// decodeDocument reads and parses one obstacle source file, resolving way
// node references against the node table in the same document, per
// river_detection.py's two-pass load (node dictionary, then way
// resolution, keeping only ways with >= 2 resolved points).
func decodeDocument(path string, isMatch func(tags map[string]string) bool) ([]orb.LineString, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	var doc rawDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDataUnavailable, path, err)
	}

	nodes := make(map[int64]orb.Point, len(doc.Elements))
	for _, el := range doc.Elements {
		if el.Type == "node" {
			nodes[el.ID] = orb.Point{el.Lon, el.Lat}
		}
	}

	var lines []orb.LineString
	for _, el := range doc.Elements {
		if el.Type != "way" || !isMatch(el.Tags) {
			continue
		}
		coords := make(orb.LineString, 0, len(el.Nodes))
		for _, nodeID := range el.Nodes {
			if p, ok := nodes[nodeID]; ok {
				coords = append(coords, p)
			}
		}
		if len(coords) >= 2 {
			lines = append(lines, coords)
		}
	}
	return lines, nil
}
