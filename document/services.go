package document

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"strings"
)

// type Service is the name of a category of dataset-associated resources. It is also the
// property name under which the service's entries are stored in a dataset document.
type Service string

const (
	Overlays  Service = "overlays"
	Downloads Service = "downloads"
	Analytics Service = "analytics"
	Model     Service = "model"
)

const INFORMATION_MARKDOWN_KEY string = "information"
const PROVENANCE_MARKDOWN_KEY string = "provenanceService"

// Services returns every known Service in the order they are applied to a dataset.
func Services() []Service {
	return []Service{Overlays, Downloads, Analytics, Model}
}

// MarkdownKey returns the property whose "markdown" sub-property describes the service as a whole.
func (s Service) MarkdownKey() string {

	switch s {
	case Overlays:
		return "overlayService"
	case Downloads:
		return "downloadService"
	case Analytics:
		return "analyticService"
	case Model:
		return "modelService"
	default:
		return string(s) + "Service"
	}
}

// type ServiceEntry is a single typed service record.
type ServiceEntry interface {
	Validate() error
}

type Overlay struct {
	Title       string   `json:"title"`
	Shortname   string   `json:"shortname"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Type        string   `json:"type"`
	Styles      []string `json:"styles"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	// has_range is true when both min and max were present in the source entry.
	has_range bool
}

func (o Overlay) Validate() error {

	if o.Title == "" || o.Shortname == "" {
		return &InvalidEntryError{Service: Overlays, Title: o.Title, Reason: "missing title or shortname"}
	}

	if o.has_range && o.Max < o.Min {
		return &InvalidEntryError{Service: Overlays, Title: o.Title, Reason: "max is less than min"}
	}

	return nil
}

type Download struct {
	Title       string  `json:"title"`
	Shortname   string  `json:"shortname"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Formats     string  `json:"formats"`
	Size        float64 `json:"size"`
}

func (d Download) Validate() error {

	if d.Title == "" || d.Shortname == "" {
		return &InvalidEntryError{Service: Downloads, Title: d.Title, Reason: "missing title or shortname"}
	}

	if d.Size < 0 {
		return &InvalidEntryError{Service: Downloads, Title: d.Title, Reason: "negative size"}
	}

	return nil
}

type AnalyticsEntry struct {
	Title       string `json:"title"`
	Shortname   string `json:"shortname"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (a AnalyticsEntry) Validate() error {

	if a.Title == "" || a.Shortname == "" {
		return &InvalidEntryError{Service: Analytics, Title: a.Title, Reason: "missing title or shortname"}
	}

	return nil
}

type ModelEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
}

func (m ModelEntry) Validate() error {

	if m.Name == "" {
		return &InvalidEntryError{Service: Model, Title: m.Name, Reason: "missing name"}
	}

	return nil
}

// NewServiceEntry returns the typed, validated record for 'service' derived from the
// (already processed) raw entry 'e'. Unrecognized properties are discarded.
func NewServiceEntry(service Service, e gjson.Result) (ServiceEntry, error) {

	var entry ServiceEntry

	switch service {
	case Overlays:

		o := Overlay{
			Type:   "wms",
			Styles: []string{"default"},
		}

		o.Title = e.Get("title").String()
		o.Shortname = e.Get("shortname").String()
		o.Description = e.Get("description").String()
		o.URL = e.Get("url").String()

		if t := e.Get("type").String(); t != "" {
			o.Type = t
		}

		if rsp := e.Get("styles"); rsp.Exists() {
			o.Styles = stringList(rsp)
		}

		min_rsp := e.Get("min")
		max_rsp := e.Get("max")

		o.Min = min_rsp.Float()
		o.Max = max_rsp.Float()
		o.has_range = min_rsp.Exists() && max_rsp.Exists()

		entry = o

	case Downloads:

		d := Download{
			Title:       e.Get("title").String(),
			Shortname:   e.Get("shortname").String(),
			Description: e.Get("description").String(),
			URL:         e.Get("url").String(),
			Formats:     strings.Join(stringList(e.Get("formats")), ", "),
			Size:        e.Get("size").Float(),
		}

		entry = d

	case Analytics:

		a := AnalyticsEntry{
			Title:       e.Get("title").String(),
			Shortname:   e.Get("shortname").String(),
			Description: e.Get("description").String(),
			URL:         e.Get("url").String(),
		}

		entry = a

	case Model:

		m := ModelEntry{
			Name:        e.Get("title").String(),
			Description: e.Get("description").String(),
			URL:         e.Get("url").String(),
			Type:        e.Get("type").String(),
		}

		entry = m

	default:
		return nil, fmt.Errorf("Unknown service '%s'", service)
	}

	err := entry.Validate()

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateParameters reads the list named 'service' from the JSON file at 'path', reconciles each entry
// with the dataset's variables and assigns the resulting typed records to the 'service' property of
// 'body'. If 'path' does not exist 'body' is returned unchanged.
func UpdateParameters(ctx context.Context, body []byte, service Service, path string, vars TemplateVars, logger logrus.FieldLogger) ([]byte, error) {

	params, ok, err := readOptionalFile(path)

	if err != nil {
		return nil, err
	}

	if !ok {
		return body, nil
	}

	if !gjson.ValidBytes(params) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	list_rsp := gjson.GetBytes(params, string(service))

	if !list_rsp.IsArray() {
		return nil, fmt.Errorf("%s is missing a '%s' list", path, service)
	}

	dataset_title := gjson.GetBytes(body, "title").String()
	variables := Variables(body)

	entries := make([]ServiceEntry, 0)

	for idx, e := range list_rsp.Array() {

		if !e.IsObject() {
			return nil, fmt.Errorf("%s.%d is not an object", service, idx)
		}

		raw := []byte(e.Raw)

		entry_logger := logger.WithField("path", fmt.Sprintf("%s.%d", service, idx))
		raw, err = promoteName(raw, "", entry_logger)

		if err != nil {
			return nil, err
		}

		title := gjson.GetBytes(raw, "title").String()

		if strings.TrimSpace(title) == "" {
			return nil, &MissingTitleError{Path: string(service), Index: idx}
		}

		v, err := matchVariable(service, title, variables)

		if err != nil {
			return nil, err
		}

		raw, err = sjson.SetBytes(raw, "shortname", v.Shortname)

		if err != nil {
			return nil, err
		}

		if url_rsp := gjson.GetBytes(raw, "url"); url_rsp.Exists() {

			raw, err = sjson.SetBytes(raw, "url", vars.Expand(url_rsp.String()))

			if err != nil {
				return nil, err
			}
		}

		if gjson.GetBytes(raw, "description").String() == "" {

			description := fmt.Sprintf("dataset %s variable %s", dataset_title, v.Title)
			raw, err = sjson.SetBytes(raw, "description", description)

			if err != nil {
				return nil, err
			}
		}

		entry, err := NewServiceEntry(service, gjson.ParseBytes(raw))

		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return sjson.SetBytes(body, string(service), entries)
}

func matchVariable(service Service, title string, variables []Variable) (Variable, error) {

	matches := make([]Variable, 0, 1)

	for _, v := range variables {

		if v.Title == title {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 0:
		return Variable{}, &UnknownVariableError{Service: service, Title: title}
	case 1:
		return matches[0], nil
	default:
		return Variable{}, &AmbiguousVariableError{Service: service, Title: title}
	}
}

func stringList(rsp gjson.Result) []string {

	list := make([]string, 0)

	if !rsp.Exists() {
		return list
	}

	if !rsp.IsArray() {
		return append(list, rsp.String())
	}

	for _, r := range rsp.Array() {
		list = append(list, r.String())
	}

	return list
}
