package document

import (
	"context"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
	"path/filepath"
	"testing"
)

func TestUpdateDescription(t *testing.T) {

	ctx := context.Background()

	Convey("A missing markdown file leaves the document unchanged", t, func() {

		body := []byte(`{"title":"Original","description":"Unchanged"}`)
		path := filepath.Join(t.TempDir(), "description.md")

		new_body, err := UpdateDescription(ctx, body, path)
		So(err, ShouldBeNil)
		So(string(new_body), ShouldEqual, string(body))
	})

	Convey("The first heading becomes the title and the rest the description", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "description.md", "# PaleoCAR Maize Niche \n\n\nThe niche for maize farming.\n\n## Method\nPaleoCAR.\n")

		body := []byte(`{"title":"Original","description":"Old"}`)

		new_body, err := UpdateDescription(ctx, body, path)
		So(err, ShouldBeNil)
		So(gjson.GetBytes(new_body, "title").String(), ShouldEqual, "PaleoCAR Maize Niche")
		So(gjson.GetBytes(new_body, "description").String(), ShouldEqual, "The niche for maize farming.\n\n## Method\nPaleoCAR.\n")
	})

	Convey("The heading does not have to be on the first line", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "description.md", "Preamble\n# Title\nBody\n")

		new_body, err := UpdateDescription(ctx, []byte(`{}`), path)
		So(err, ShouldBeNil)
		So(gjson.GetBytes(new_body, "title").String(), ShouldEqual, "Title")
		So(gjson.GetBytes(new_body, "description").String(), ShouldEqual, "Preamble\nBody\n")
	})

	Convey("Without a heading the title is untouched", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "description.md", "\n\n## Not a title\nText")

		new_body, err := UpdateDescription(ctx, []byte(`{"title":"Original"}`), path)
		So(err, ShouldBeNil)
		So(gjson.GetBytes(new_body, "title").String(), ShouldEqual, "Original")
		So(gjson.GetBytes(new_body, "description").String(), ShouldEqual, "## Not a title\nText")
	})

	Convey("A heading-only file clears the description", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "description.md", "# Only a title\n")

		new_body, err := UpdateDescription(ctx, []byte(`{"description":"Old"}`), path)
		So(err, ShouldBeNil)
		So(gjson.GetBytes(new_body, "title").String(), ShouldEqual, "Only a title")
		So(gjson.GetBytes(new_body, "description").String(), ShouldEqual, "")
	})

	Convey("Merging is idempotent", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "description.md", "# Title\n\nBody\n")

		once, err := UpdateDescription(ctx, []byte(`{"title":"x","variables":[]}`), path)
		So(err, ShouldBeNil)

		twice, err := UpdateDescription(ctx, once, path)
		So(err, ShouldBeNil)
		So(string(twice), ShouldEqual, string(once))
	})
}

func TestUpdateMarkdown(t *testing.T) {

	ctx := context.Background()

	Convey("The whole file is assigned to the markdown property", t, func() {

		dir := t.TempDir()
		path := writeTestFile(t, dir, "overlay.md", "# Overlays\n\nWMS layers.\n")

		new_body, err := UpdateMarkdown(ctx, []byte(`{}`), "overlayService", path)
		So(err, ShouldBeNil)
		So(gjson.GetBytes(new_body, "overlayService.markdown").String(), ShouldEqual, "# Overlays\n\nWMS layers.\n")
	})

	Convey("A missing file clears stale markdown", t, func() {

		path := filepath.Join(t.TempDir(), "overlay.md")

		new_body, err := UpdateMarkdown(ctx, []byte(`{"overlayService":{"markdown":"stale"}}`), "overlayService", path)
		So(err, ShouldBeNil)

		rsp := gjson.GetBytes(new_body, "overlayService.markdown")
		So(rsp.Exists(), ShouldBeTrue)
		So(rsp.String(), ShouldEqual, "")
	})

	Convey("A missing file with no prior markdown is a no-op", t, func() {

		body := []byte(`{"title":"x"}`)
		path := filepath.Join(t.TempDir(), "overlay.md")

		new_body, err := UpdateMarkdown(ctx, body, "overlayService", path)
		So(err, ShouldBeNil)
		So(string(new_body), ShouldEqual, string(body))
	})
}
