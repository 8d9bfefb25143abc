package source

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element names are matched on their local part so the gmd/gmi/gco namespace prefixes used by
// NOAA ISO 19115-2 records are irrelevant. The root element may be gmi:MI_Metadata or gmd:MD_Metadata.
type noaaRecord struct {
	Identification noaaIdentification `xml:"identificationInfo>MD_DataIdentification"`
	Coverage       []noaaCoverage     `xml:"contentInfo>MI_CoverageDescription"`
	Descriptions   []noaaCoverage     `xml:"contentInfo>MD_CoverageDescription"`
}

type noaaIdentification struct {
	Title    string        `xml:"citation>CI_Citation>title>CharacterString"`
	Abstract string        `xml:"abstract>CharacterString"`
	Purpose  string        `xml:"purpose>CharacterString"`
	Keywords []string      `xml:"descriptiveKeywords>MD_Keywords>keyword>CharacterString"`
	Extents  []noaaExtents `xml:"extent>EX_Extent>geographicElement>EX_GeographicBoundingBox"`
}

type noaaExtents struct {
	West  string `xml:"westBoundLongitude>Decimal"`
	East  string `xml:"eastBoundLongitude>Decimal"`
	South string `xml:"southBoundLatitude>Decimal"`
	North string `xml:"northBoundLatitude>Decimal"`
}

type noaaCoverage struct {
	Bands []noaaBand `xml:"dimension>MD_Band"`
}

type noaaBand struct {
	Name        string `xml:"sequenceIdentifier>MemberName>aName>CharacterString"`
	Description string `xml:"descriptor>CharacterString"`
	Units       string `xml:"units>UnitDefinition>name"`
}

// ImportNOAA reads a NOAA ISO 19115/19139 metadata record from 'r' and returns a new
// JSON-encoded dataset document derived from it.
func ImportNOAA(r io.Reader) ([]byte, error) {

	var rec noaaRecord

	err := xml.NewDecoder(r).Decode(&rec)

	if err != nil {
		return nil, fmt.Errorf("Failed to decode NOAA metadata, %w", err)
	}

	id := rec.Identification
	title := strings.TrimSpace(id.Title)

	if title == "" {
		return nil, errors.New("NOAA metadata is missing a citation title")
	}

	doc := map[string]interface{}{
		"type":        "dataset",
		"title":       title,
		"description": strings.TrimSpace(id.Abstract),
	}

	if purpose := strings.TrimSpace(id.Purpose); purpose != "" {
		doc["purpose"] = purpose
	}

	keywords := make([]string, 0)

	for _, k := range id.Keywords {

		k = strings.TrimSpace(k)

		if k != "" {
			keywords = append(keywords, k)
		}
	}

	if len(keywords) > 0 {
		doc["keywords"] = keywords
	}

	if len(id.Extents) > 0 {

		extents, err := id.Extents[0].floats()

		if err != nil {
			return nil, err
		}

		doc["region"] = map[string]interface{}{
			"extents": extents,
		}
	}

	bands := make([]noaaBand, 0)

	for _, c := range rec.Coverage {
		bands = append(bands, c.Bands...)
	}

	for _, c := range rec.Descriptions {
		bands = append(bands, c.Bands...)
	}

	variables := make([]map[string]interface{}, 0)

	for _, b := range bands {

		name := strings.TrimSpace(b.Name)

		if name == "" {
			continue
		}

		v := map[string]interface{}{
			"title":       name,
			"description": strings.TrimSpace(b.Description),
		}

		if units := strings.TrimSpace(b.Units); units != "" {
			v["units"] = units
		}

		variables = append(variables, v)
	}

	doc["variables"] = variables

	return json.Marshal(doc)
}

// floats returns the bounding box as (left, bottom, right, top).
func (e noaaExtents) floats() ([]float64, error) {

	values := []string{e.West, e.South, e.East, e.North}
	extents := make([]float64, len(values))

	for i, v := range values {

		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		if err != nil {
			return nil, fmt.Errorf("Invalid NOAA bounding box value '%s', %w", v, err)
		}

		extents[i] = f
	}

	return extents, nil
}
