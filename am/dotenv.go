package am

import (
	"os"

	"github.com/subosito/gotenv"
)

// dotEnvDefines reports whether the .env file at path sets name.
func dotEnvDefines(path, name string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	env, err := gotenv.StrictParse(f)
	if err != nil {
		return false
	}
	_, ok := env[name]
	return ok
}
