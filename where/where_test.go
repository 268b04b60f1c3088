package where

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Favorites()", func() {
			Convey("Defaults to the config directory", func() {
				viper.Set(key.FavoritesPath, "")
				So(Favorites(), ShouldEqual, filepath.Join(Config(), "favorites.json"))
			})

			Convey("Honours the configured path", func() {
				custom := filepath.Join(os.TempDir(), "mb-test", "favs.json")
				viper.Set(key.FavoritesPath, custom)
				defer viper.Set(key.FavoritesPath, "")

				So(Favorites(), ShouldEqual, custom)
				So(lo.Must(filesystem.API().IsDir(filepath.Dir(custom))), ShouldBeTrue)
			})
		})

		Convey("Socket()", func() {
			Convey("Is pid-suffixed by default", func() {
				viper.Set(key.PlayerSocketPath, "")
				So(strings.HasSuffix(Socket(), fmt.Sprintf("-%d.sock", os.Getpid())), ShouldBeTrue)
			})

			Convey("Honours the configured path", func() {
				viper.Set(key.PlayerSocketPath, "/tmp/custom.sock")
				defer viper.Set(key.PlayerSocketPath, "")
				So(Socket(), ShouldEqual, "/tmp/custom.sock")
			})
		})
	})
}
