package render

import (
	"encoding/json"
	"fmt"
	"os"
)

// Polyline is a sequence of (lon, lat) points.
type Polyline [][2]float64

// LoadBoundaries reads line features (coastlines, state borders) from a
// GeoJSON file. LineString, MultiLineString, Polygon, and MultiPolygon
// geometries contribute polylines; other geometry types are ignored. Only the
// coordinates are consumed, so the decoding is deliberately narrow.
func LoadBoundaries(path string) ([]Polyline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("boundaries: %w", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry geometry `json:"geometry"`
		} `json:"features"`
		// A bare geometry document instead of a FeatureCollection.
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("boundaries %s: %w", path, err)
	}

	var lines []Polyline
	if doc.Type == "FeatureCollection" {
		for _, f := range doc.Features {
			lines = append(lines, f.Geometry.polylines()...)
		}
	} else {
		g := geometry{Type: doc.Type, Coordinates: doc.Coordinates}
		lines = append(lines, g.polylines()...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("boundaries %s: no line geometries found", path)
	}
	return lines, nil
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (g geometry) polylines() []Polyline {
	switch g.Type {
	case "LineString":
		var line Polyline
		if json.Unmarshal(g.Coordinates, &line) == nil {
			return []Polyline{line}
		}
	case "MultiLineString", "Polygon":
		var lines []Polyline
		if json.Unmarshal(g.Coordinates, &lines) == nil {
			return lines
		}
	case "MultiPolygon":
		var polys [][]Polyline
		if json.Unmarshal(g.Coordinates, &polys) == nil {
			var lines []Polyline
			for _, rings := range polys {
				lines = append(lines, rings...)
			}
			return lines
		}
	}
	return nil
}
