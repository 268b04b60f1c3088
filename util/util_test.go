package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/maboroshi-cli/maboroshi/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("favorites"), ShouldEqual, "Favorites")
		So(Capitalize("ärger"), ShouldEqual, "Ärger")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestPrintErasable(t *testing.T) {
	Convey("Outside a terminal nothing is printed", t, func() {
		var buf bytes.Buffer
		stdout = &buf
		defer func() { stdout = os.Stdout }()

		erase := PrintErasable("Resolving...")
		erase()
		So(buf.Len(), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file in it", t, func() {
		fs := filesystem.API()
		dir := filepath.Join("/", "util-test", "cache")
		file := filepath.Join(dir, "queries.json")
		So(fs.MkdirAll(dir, 0o755), ShouldBeNil)
		So(fs.WriteFile(file, []byte("{}"), 0o644), ShouldBeNil)

		Convey("A file is removed on its own", func() {
			So(Delete(file), ShouldBeNil)
			So(exists(fs.Exists(file)), ShouldBeFalse)
			So(exists(fs.DirExists(dir)), ShouldBeTrue)
		})

		Convey("A directory is removed with its contents", func() {
			So(Delete(dir), ShouldBeNil)
			So(exists(fs.DirExists(dir)), ShouldBeFalse)
		})

		Convey("A missing path is ignored", func() {
			So(Delete(filepath.Join(dir, "missing")), ShouldBeNil)
		})
	})
}

func exists(ok bool, err error) bool {
	So(err, ShouldBeNil)
	return ok
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		So(s.Pop().IsPresent(), ShouldBeFalse)

		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek().MustGet(), ShouldEqual, 2)
		So(s.Pop().MustGet(), ShouldEqual, 2)
		So(s.Pop().MustGet(), ShouldEqual, 1)
		So(s.Pop().IsPresent(), ShouldBeFalse)

		s.Push(3)
		s.Clear()
		So(s.Len(), ShouldEqual, 0)

		Convey("A limit keeps the newest items", func() {
			bounded := Stack[string]{Limit: 2}
			bounded.Push("favorites")
			bounded.Push("search")
			bounded.Push("results")
			So(bounded.Len(), ShouldEqual, 2)
			So(bounded.Pop().MustGet(), ShouldEqual, "results")
			So(bounded.Pop().MustGet(), ShouldEqual, "search")
			So(bounded.Pop().IsPresent(), ShouldBeFalse)
		})
	})
}
