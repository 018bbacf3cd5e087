package paths

import (
	"flag"
	"os"
)

// Find returns the first of the passed directories that exists, or "".
func Find(dirs ...string) string {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			return d
		}
	}
	return ""
}

// SetupViewDirFlag creates a string flag for a directory of view resources,
// defaulting to $AGI_VIEW_DIR or ./views if either exists.
func SetupViewDirFlag(flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, Find(os.Getenv("AGI_VIEW_DIR"), "views"), "Path to a directory of view resources")
}
