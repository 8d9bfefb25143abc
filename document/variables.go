package document

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"strings"
)

// type Variable is a single measured quantity in a dataset.
type Variable struct {
	Title       string `json:"title"`
	Shortname   string `json:"shortname"`
	Description string `json:"description,omitempty"`
	Class       string `json:"class,omitempty"`
}

// UpdateSlug assigns the slug of the title property to the "skopeid" property.
func UpdateSlug(ctx context.Context, body []byte, slugger *Slugger) ([]byte, error) {

	title := strings.TrimSpace(gjson.GetBytes(body, "title").String())

	if title == "" {
		return nil, ErrMissingTitle
	}

	return sjson.SetBytes(body, "skopeid", slugger.Slug(title))
}

// NormalizeVariables promotes the deprecated "name" property of each entry in "variables" to
// "title" and assigns each variable a "shortname" derived from its title. Shortnames are issued by
// 'slugger', which is shared with the dataset's "skopeid", so a variable whose title matches the
// dataset title (or another variable) gets a suffixed shortname, for example "temperature-1".
func NormalizeVariables(ctx context.Context, body []byte, slugger *Slugger, logger logrus.FieldLogger) ([]byte, error) {

	vars_rsp := gjson.GetBytes(body, "variables")

	if !vars_rsp.Exists() {
		return body, nil
	}

	if !vars_rsp.IsArray() {
		return nil, fmt.Errorf("variables property must be a list")
	}

	var err error

	for idx := range vars_rsp.Array() {

		prefix := fmt.Sprintf("variables.%d", idx)

		body, err = promoteName(body, prefix, logger.WithField("path", prefix))

		if err != nil {
			return nil, err
		}

		title := strings.TrimSpace(gjson.GetBytes(body, prefix+".title").String())

		if title == "" {
			return nil, &MissingTitleError{Path: "variables", Index: idx}
		}

		body, err = sjson.SetBytes(body, prefix+".shortname", slugger.Slug(title))

		if err != nil {
			return nil, err
		}
	}

	return body, nil
}

// AppendVariables appends a markdown list of the dataset's variable titles to the description property.
func AppendVariables(ctx context.Context, body []byte) ([]byte, error) {

	titles := make([]string, 0)

	for _, v := range gjson.GetBytes(body, "variables").Array() {
		titles = append(titles, v.Get("title").String())
	}

	md := strings.Join([]string{"", "### Variables", strings.Join(titles, ", ")}, "\n")
	description := gjson.GetBytes(body, "description").String()

	return sjson.SetBytes(body, "description", description+md)
}

// Variables returns the (normalized) variables in 'body'.
func Variables(body []byte) []Variable {

	vars := make([]Variable, 0)

	for _, v := range gjson.GetBytes(body, "variables").Array() {

		vars = append(vars, Variable{
			Title:       v.Get("title").String(),
			Shortname:   v.Get("shortname").String(),
			Description: v.Get("description").String(),
			Class:       v.Get("class").String(),
		})
	}

	return vars
}

// promoteName replaces the deprecated "name" property of the object at 'prefix' (or of 'body' itself if
// 'prefix' is empty) with "title". An existing title is never overwritten.
func promoteName(body []byte, prefix string, logger logrus.FieldLogger) ([]byte, error) {

	name_path := joinPath(prefix, "name")
	title_path := joinPath(prefix, "title")

	name_rsp := gjson.GetBytes(body, name_path)

	if !name_rsp.Exists() {
		return body, nil
	}

	var err error

	if !gjson.GetBytes(body, title_path).Exists() {

		logger.Warnf("The name property is deprecated, use title instead (%q)", name_rsp.String())

		body, err = sjson.SetBytes(body, title_path, name_rsp.String())

		if err != nil {
			return nil, err
		}
	}

	return sjson.DeleteBytes(body, name_path)
}

func joinPath(prefix string, key string) string {

	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
