package document

import (
	. "github.com/smartystreets/goconvey/convey"
	"strings"
	"testing"
	"unicode"
)

func TestSlugify(t *testing.T) {

	Convey("Slugify lowercases and hyphenates", t, func() {
		So(Slugify("PaleoCAR Maize Niche"), ShouldEqual, "paleocar-maize-niche")
		So(Slugify("  Precipitation (mm) / year  "), ShouldEqual, "precipitation-mm-year")
		So(Slugify("Crème Brûlée"), ShouldEqual, "creme-brulee")
		So(Slugify("GDD_2018"), ShouldEqual, "gdd-2018")
	})

	Convey("Slugify never returns an empty string", t, func() {
		So(Slugify("!!!"), ShouldEqual, fallback_slug)
		So(Slugify("   "), ShouldEqual, fallback_slug)
	})
}

func TestSlugger(t *testing.T) {

	Convey("Repeated titles get distinct slugs", t, func() {

		s := NewSlugger()

		So(s.Slug("Maize Farming Niche"), ShouldEqual, "maize-farming-niche")
		So(s.Slug("Maize Farming Niche"), ShouldEqual, "maize-farming-niche-1")
		So(s.Slug("maize farming niche!"), ShouldEqual, "maize-farming-niche-2")
	})

	Convey("A title that looks like a suffixed slug does not collide", t, func() {

		s := NewSlugger()

		So(s.Slug("Temperature 1"), ShouldEqual, "temperature-1")
		So(s.Slug("Temperature"), ShouldEqual, "temperature")
		So(s.Slug("Temperature"), ShouldEqual, "temperature-2")
	})

	Convey("Slugs are non-empty, lowercase and contain no whitespace", t, func() {

		s := NewSlugger()

		titles := []string{
			"Temperature",
			"Mean Annual Precipitation",
			"Ünïcödé Títle",
			"tabs\tand\nnewlines",
			"?",
			"Temperature",
		}

		seen := make(map[string]bool)

		for _, title := range titles {

			slug := s.Slug(title)

			So(slug, ShouldNotBeEmpty)
			So(slug, ShouldEqual, strings.ToLower(slug))
			So(strings.IndexFunc(slug, unicode.IsSpace), ShouldEqual, -1)
			So(seen[slug], ShouldBeFalse)

			seen[slug] = true
		}
	})
}
