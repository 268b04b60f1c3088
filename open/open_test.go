package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Only web pages are opened", t, func() {
		So(validate("https://www.youtube.com/watch?v=abc"), ShouldBeNil)
		So(validate("http://soundcloud.com/artist/song"), ShouldBeNil)

		So(validate("file:///etc/passwd"), ShouldNotBeNil)
		So(validate("ytsearch1:some song"), ShouldNotBeNil)
		So(validate("https://"), ShouldNotBeNil)
		So(validate("--help"), ShouldNotBeNil)
	})
}
