package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	EnvKey  = "REELS_ENV"
	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "production"
)

// Load loads the .env file following the convention: https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only need to be called once in main function, other code can use env through os.Getenv('ENV_NAME') during runtime
func LoadDotEnvs() error {
	// check whether running in development, testing, production etc.
	loadDotEnvs("")
	return nil
}

// Env is the runtime environment, "dev" when REELS_ENV is unset.
func Env() string {
	env := os.Getenv(EnvKey)
	if env == "" {
		return DevEnv
	}
	return env
}

func IsProdEnv() bool {
	return Env() == ProdEnv
}

func loadDotEnvs(rootPath string) {
	env := Env()

	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// Have to write this helper function due to a known issue of godotenv
// https://github.com/joho/godotenv/issues/43
// Tests run inside their package directory, so .env.test is looked up in the
// closest ancestor holding go.mod.
func LoadDotEnvsInTests() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// not inside a module, nothing to load
			return nil
		}
		dir = parent
	}

	godotenv.Load(filepath.Join(dir, ".env.test"))
	return nil
}
