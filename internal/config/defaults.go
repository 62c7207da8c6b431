// Package config handles mioplan board configuration.
package config

import "github.com/twiced-technology-gmbh/mioplan/internal/store"

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "mioplan"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultOverlayFile is the SQLite file used by the sqlite backend.
	DefaultOverlayFile = "overlay.db"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"
	// EnvFileName holds secrets next to the config file.
	EnvFileName = ".env"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultScale is the time scale a new board opens in.
	DefaultScale = "week"
	// DefaultDayWidth is the width of one day column under the day scale.
	DefaultDayWidth = 4
	// DefaultWeekWidth is the width of one week under the week scale.
	DefaultWeekWidth = 14
	// DefaultMonthWidth is the width of one month under the month scale.
	DefaultMonthWidth = 31
	// DefaultDuration is the span in days given to a task placed with no dates.
	DefaultDuration = 3

	// DefaultSlotHeight is the height of one stacked slot in a lane.
	DefaultSlotHeight = 1
	// DefaultBasePadding is added below the slots of every lane.
	DefaultBasePadding = 1
	// DefaultMinHeight is the height of an empty lane.
	DefaultMinHeight = 2

	// DefaultKaitenBaseURL is the Kaiten instance synced from when none is configured.
	DefaultKaitenBaseURL = "https://solargroup.kaiten.ru"
	// DefaultKaitenLimit is the number of cards fetched per sync.
	DefaultKaitenLimit = 100

	// DefaultServerAddr is the listen address of "mioplan serve".
	DefaultServerAddr = "localhost:3001"

	// EnvKaitenToken names the environment variable holding the Kaiten API key.
	EnvKaitenToken = "MIOPLAN_KAITEN_TOKEN"
)

// Backends accepted by store.backend.
var Backends = []string{store.BackendFiles, store.BackendSQLite, store.BackendHTTP}

// Window defaults, relative to today, used when timeline.window_* are empty.
const (
	defaultWindowMonthsBefore = 1
	defaultWindowMonthsAfter  = 12
)
