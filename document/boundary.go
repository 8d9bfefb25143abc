package document

import (
	"bytes"
	"context"
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"io"
)

// ResolveBoundary assigns the "region.geometry" property of 'body'. If there is a GeoJSON file at 'path'
// its (first) geometry is used, otherwise a rectangle is derived from "region.extents". If neither is
// available the geometry is left unset and a warning is logged.
func ResolveBoundary(ctx context.Context, body []byte, path string, logger logrus.FieldLogger) ([]byte, error) {

	geojson_body, ok, err := readOptionalFile(path)

	if err != nil {
		return nil, err
	}

	if ok {

		geom, err := ReadBoundary(bytes.NewReader(geojson_body))

		if err != nil {
			logger.WithField("path", path).Warnf("Failed to read boundary, %v", err)
			return body, nil
		}

		if len(geom) == 0 {
			logger.WithField("path", path).Warn("Boundary file is not a Feature or FeatureCollection, geometry left unset")
			return body, nil
		}

		return sjson.SetRawBytes(body, "region.geometry", geom)
	}

	extents_rsp := gjson.GetBytes(body, "region.extents")

	if !extents_rsp.Exists() {
		logger.Warn("No boundary file and no region.extents, geometry left unset")
		return body, nil
	}

	extents, err := parseExtents(extents_rsp)

	if err != nil {
		return nil, err
	}

	poly, err := BoundaryFromExtents(extents)

	if err != nil {
		return nil, err
	}

	enc, err := geojson.NewGeometry(poly).MarshalJSON()

	if err != nil {
		return nil, fmt.Errorf("Failed to encode boundary, %w", err)
	}

	return sjson.SetRawBytes(body, "region.geometry", enc)
}

// ReadBoundary returns the raw geometry of a GeoJSON Feature, or the first Feature of a FeatureCollection,
// read from 'r'. Any other GeoJSON type yields an empty geometry and no error.
func ReadBoundary(r io.Reader) ([]byte, error) {

	body, err := io.ReadAll(r)

	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Invalid JSON")
	}

	var geom_rsp gjson.Result

	switch gjson.GetBytes(body, "type").String() {
	case "FeatureCollection":
		geom_rsp = gjson.GetBytes(body, "features.0.geometry")
	case "Feature":
		geom_rsp = gjson.GetBytes(body, "geometry")
	default:
		return nil, nil
	}

	if !geom_rsp.IsObject() {
		return nil, nil
	}

	raw := []byte(geom_rsp.Raw)

	_, err = geojson.UnmarshalGeometry(raw)

	if err != nil {
		return nil, fmt.Errorf("Invalid geometry, %w", err)
	}

	return raw, nil
}

// BoundaryFromExtents returns a closed rectangular polygon for 'extents' (left, bottom, right, top),
// wound left-bottom, left-top, right-top, right-bottom, left-bottom.
func BoundaryFromExtents(extents []float64) (orb.Polygon, error) {

	if len(extents) != 4 {
		return nil, ErrInvalidExtents
	}

	left, bottom, right, top := extents[0], extents[1], extents[2], extents[3]

	ring := orb.Ring{
		orb.Point{left, bottom},
		orb.Point{left, top},
		orb.Point{right, top},
		orb.Point{right, bottom},
		orb.Point{left, bottom},
	}

	return orb.Polygon{ring}, nil
}

func parseExtents(rsp gjson.Result) ([]float64, error) {

	if !rsp.IsArray() {
		return nil, ErrInvalidExtents
	}

	extents := make([]float64, 0, 4)

	for _, e := range rsp.Array() {

		if e.Type != gjson.Number {
			return nil, ErrInvalidExtents
		}

		extents = append(extents, e.Float())
	}

	if len(extents) != 4 {
		return nil, ErrInvalidExtents
	}

	return extents, nil
}
