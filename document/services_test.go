package document

import (
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
	"path/filepath"
	"testing"
)

const test_dataset string = `{
  "title": "PaleoCAR",
  "variables": [
    {"title": "Temperature", "shortname": "temperature"},
    {"title": "Precipitation", "shortname": "precipitation"}
  ]
}`

func TestUpdateParameters(t *testing.T) {

	ctx := context.Background()

	vars := TemplateVars{
		TEMPLATE_DEPLOY_HOST: "http://example.org",
	}

	Convey("An absent parameter file leaves the document unchanged", t, func() {

		logger, _ := test.NewNullLogger()
		path := filepath.Join(t.TempDir(), "overlays.json")

		body, err := UpdateParameters(ctx, []byte(test_dataset), Overlays, path, vars, logger)
		So(err, ShouldBeNil)
		So(string(body), ShouldEqual, test_dataset)
	})

	Convey("Overlay entries are matched to variables and expanded", t, func() {

		logger, hook := test.NewNullLogger()

		path := writeTestFile(t, t.TempDir(), "overlays.json", `{"overlays":[
  {"title": "Temperature", "url": "{DEPLOY_HOST}/wms", "min": -20, "max": 40, "extra": true},
  {"name": "Precipitation", "description": "Annual rainfall", "type": "wmts", "styles": ["blues"]}
]}`)

		body, err := UpdateParameters(ctx, []byte(test_dataset), Overlays, path, vars, logger)
		So(err, ShouldBeNil)

		temp := gjson.GetBytes(body, "overlays.0")
		So(temp.Get("shortname").String(), ShouldEqual, "temperature")
		So(temp.Get("url").String(), ShouldEqual, "http://example.org/wms")
		So(temp.Get("description").String(), ShouldEqual, "dataset PaleoCAR variable Temperature")
		So(temp.Get("type").String(), ShouldEqual, "wms")
		So(temp.Get("styles.0").String(), ShouldEqual, "default")
		So(temp.Get("max").Float(), ShouldEqual, 40)
		So(temp.Get("extra").Exists(), ShouldBeFalse)

		precip := gjson.GetBytes(body, "overlays.1")
		So(precip.Get("title").String(), ShouldEqual, "Precipitation")
		So(precip.Get("name").Exists(), ShouldBeFalse)
		So(precip.Get("description").String(), ShouldEqual, "Annual rainfall")
		So(precip.Get("type").String(), ShouldEqual, "wmts")
		So(precip.Get("styles.0").String(), ShouldEqual, "blues")

		So(len(hook.Entries), ShouldEqual, 1)
		So(hook.LastEntry().Level, ShouldEqual, logrus.WarnLevel)
		So(hook.LastEntry().Data["path"], ShouldEqual, "overlays.1")
	})

	Convey("Download formats are flattened and model entries are keyed by name", t, func() {

		logger, _ := test.NewNullLogger()
		dir := t.TempDir()

		downloads := writeTestFile(t, dir, "downloads.json", `{"downloads":[{"title":"Temperature","formats":["GeoTIFF","NetCDF"],"size":1024}]}`)
		model := writeTestFile(t, dir, "model.json", `{"model":[{"title":"Precipitation","url":"{DEPLOY_HOST}/model","type":"PaleoCAR"}]}`)

		body, err := UpdateParameters(ctx, []byte(test_dataset), Downloads, downloads, vars, logger)
		So(err, ShouldBeNil)

		body, err = UpdateParameters(ctx, body, Model, model, vars, logger)
		So(err, ShouldBeNil)

		So(gjson.GetBytes(body, "downloads.0.formats").String(), ShouldEqual, "GeoTIFF, NetCDF")
		So(gjson.GetBytes(body, "downloads.0.size").Float(), ShouldEqual, 1024)

		So(gjson.GetBytes(body, "model.0.name").String(), ShouldEqual, "Precipitation")
		So(gjson.GetBytes(body, "model.0.url").String(), ShouldEqual, "http://example.org/model")
	})

	Convey("An entry that does not match any variable is an error", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "analytics.json", `{"analytics":[{"title":"Nonexistent"}]}`)

		_, err := UpdateParameters(ctx, []byte(test_dataset), Analytics, path, vars, logger)

		var unknown *UnknownVariableError
		So(errors.As(err, &unknown), ShouldBeTrue)
		So(unknown.Title, ShouldEqual, "Nonexistent")
		So(unknown.Service, ShouldEqual, Analytics)
	})

	Convey("An entry matching more than one variable is an error", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "analytics.json", `{"analytics":[{"title":"Temperature"}]}`)

		dataset := `{"title":"x","variables":[{"title":"Temperature","shortname":"a"},{"title":"Temperature","shortname":"b"}]}`

		_, err := UpdateParameters(ctx, []byte(dataset), Analytics, path, vars, logger)

		var ambiguous *AmbiguousVariableError
		So(errors.As(err, &ambiguous), ShouldBeTrue)
	})

	Convey("An entry without a title is an error", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "downloads.json", `{"downloads":[{"url":"x"}]}`)

		_, err := UpdateParameters(ctx, []byte(test_dataset), Downloads, path, vars, logger)

		var missing *MissingTitleError
		So(errors.As(err, &missing), ShouldBeTrue)
		So(missing.Path, ShouldEqual, "downloads")
		So(missing.Index, ShouldEqual, 0)
	})

	Convey("A parameter file without the service's list is an error", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "overlays.json", `{"downloads":[]}`)

		_, err := UpdateParameters(ctx, []byte(test_dataset), Overlays, path, vars, logger)
		So(err, ShouldNotBeNil)
	})

	Convey("An overlay whose max is less than its min fails validation", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "overlays.json", `{"overlays":[{"title":"Temperature","min":10,"max":0}]}`)

		_, err := UpdateParameters(ctx, []byte(test_dataset), Overlays, path, vars, logger)

		var invalid *InvalidEntryError
		So(errors.As(err, &invalid), ShouldBeTrue)
	})
}

func TestUpdateParametersOverlayDefaults(t *testing.T) {

	ctx := context.Background()

	Convey("An overlay with only a min, or an empty type, falls back to the defaults", t, func() {

		logger, _ := test.NewNullLogger()
		path := writeTestFile(t, t.TempDir(), "overlays.json", `{"overlays":[
  {"title": "Temperature", "min": 5},
  {"title": "Precipitation", "type": "", "max": -3}
]}`)

		body, err := UpdateParameters(ctx, []byte(test_dataset), Overlays, path, TemplateVars{}, logger)
		So(err, ShouldBeNil)

		So(gjson.GetBytes(body, "overlays.#").Int(), ShouldEqual, 2)
		So(gjson.GetBytes(body, "overlays.0.min").Float(), ShouldEqual, 5)
		So(gjson.GetBytes(body, "overlays.0.max").Float(), ShouldEqual, 0)
		So(gjson.GetBytes(body, "overlays.1.type").String(), ShouldEqual, "wms")
		So(gjson.GetBytes(body, "overlays.1.max").Float(), ShouldEqual, -3)
	})
}

func TestServiceMarkdownKey(t *testing.T) {

	expected := map[Service]string{
		Overlays:  "overlayService",
		Downloads: "downloadService",
		Analytics: "analyticService",
		Model:     "modelService",
	}

	for s, key := range expected {

		if s.MarkdownKey() != key {
			t.Fatalf("Expected %s markdown key to be %s, got %s", s, key, s.MarkdownKey())
		}
	}
}
