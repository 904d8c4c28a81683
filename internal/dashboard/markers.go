package dashboard

import (
	"fmt"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/uber/h3-go/v4"
)

// Marker carries the popup fields of one candidate on the map.
type Marker struct {
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	City   string  `json:"city"`
	Source string  `json:"source"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Cluster groups markers that fall in the same H3 cell.
type Cluster struct {
	Cell    string     `json:"cell"`
	Count   int        `json:"count"`
	Center  domain.Geo `json:"center"`
	Markers []Marker   `json:"markers"`
}

// MarkerView is the map payload: initial centre plus clustered markers.
type MarkerView struct {
	Center     domain.Geo `json:"center"`
	Resolution int        `json:"resolution"`
	Total      int        `json:"total"`
	Clusters   []Cluster  `json:"clusters"`
}

// Markers builds one marker per map-eligible record in records.
func Markers(records []domain.CanonicalRecord) []Marker {
	out := make([]Marker, 0, len(records))
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}
		out = append(out, Marker{
			Name:   rec.Name(),
			Role:   rec.Role(),
			City:   rec.City(),
			Source: rec.Source(),
			Lat:    rec.Geo.Lat,
			Lon:    rec.Geo.Lon,
		})
	}
	return out
}

// Clusterize groups markers by H3 cell at the given resolution. Clusters are
// ordered by first appearance and centred on the mean of their members.
func Clusterize(markers []Marker, resolution int) ([]Cluster, error) {
	index := make(map[h3.Cell]int)
	var clusters []Cluster
	for _, m := range markers {
		cell, err := h3.LatLngToCell(h3.NewLatLng(m.Lat, m.Lon), resolution)
		if err != nil {
			return nil, fmt.Errorf("h3 cell at res %d: %w", resolution, err)
		}
		i, ok := index[cell]
		if !ok {
			i = len(clusters)
			index[cell] = i
			clusters = append(clusters, Cluster{Cell: cell.String()})
		}
		c := &clusters[i]
		c.Markers = append(c.Markers, m)
		c.Count++
		c.Center.Lat += m.Lat
		c.Center.Lon += m.Lon
	}

	for i := range clusters {
		n := float64(clusters[i].Count)
		clusters[i].Center.Lat /= n
		clusters[i].Center.Lon /= n
	}
	return clusters, nil
}

// BuildMarkerView clusters the map-eligible records around center.
func BuildMarkerView(records []domain.CanonicalRecord, center domain.Geo, resolution int) (MarkerView, error) {
	markers := Markers(records)
	clusters, err := Clusterize(markers, resolution)
	if err != nil {
		return MarkerView{}, err
	}
	if clusters == nil {
		clusters = []Cluster{}
	}
	return MarkerView{
		Center:     center,
		Resolution: resolution,
		Total:      len(markers),
		Clusters:   clusters,
	}, nil
}
