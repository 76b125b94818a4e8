package cccrack

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/borzoi/src.BORZOI_VERSION=X'"`
var BORZOI_VERSION string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

func PrintVersion() {
	var buildInfo, _ = debug.ReadBuildInfo()

	var buildCommit = getBuildSettingOrDefault(buildInfo, "vcs.revision", "UNKNOWN")
	var buildTimeStr = getBuildSettingOrDefault(buildInfo, "vcs.time", "UNKNOWN")

	var version = BORZOI_VERSION
	if version == "" {
		version = "!UNKNOWN!"
	}

	fmt.Printf("Borzoi - Version %s (revision %s, built at %s)\n", version, buildCommit, buildTimeStr)
}
