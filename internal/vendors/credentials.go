// internal/vendors/credentials.go
package vendors

import (
	"os"

	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/pkg/registry"

	"github.com/joho/godotenv"
)

type CredentialSource string

const (
	SourceEnvFile CredentialSource = "env_file"
	SourceHostEnv CredentialSource = "host_env"
	SourceNone    CredentialSource = "none"
)

const hostEnvWarning = "Using host environment key - insecure! Use .env file instead"

// ModeMock is the only mode vendors run in today.
const ModeMock = "mock"

type Credentials struct {
	Vendor   string           `json:"vendor"`
	HasKey   bool             `json:"has_key"`
	Source   CredentialSource `json:"source"`
	IsSecure bool             `json:"is_secure"`
	Warning  string           `json:"warning,omitempty"`
}

// Environment is the credential picture taken once at startup.
type Environment struct {
	Mode             string
	ForceMock        bool
	AvailableVendors []string
	Credentials      map[string]Credentials
}

// DetectEnvironment checks each registry vendor's key. A key counts as
// secure only when envFile itself defines it with a non-empty value; a key
// visible only in the process environment is flagged. getenv defaults to
// os.Getenv.
func DetectEnvironment(reg *registry.VendorRegistry, envFile string, forceMock bool, getenv func(string) string, log logger.Logger) *Environment {
	if getenv == nil {
		getenv = os.Getenv
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	env := &Environment{
		Mode:             ModeMock,
		ForceMock:        forceMock,
		AvailableVendors: []string{},
		Credentials:      make(map[string]Credentials),
	}
	if forceMock {
		log.Info("FORCE_MOCK set, skipping credential detection", nil)
		return env
	}

	fileVars := readEnvFile(envFile, log)

	for _, v := range reg.Vendors {
		if getenv(v.EnvVar) == "" {
			env.Credentials[v.ID] = Credentials{Vendor: v.ID, Source: SourceNone, IsSecure: true}
			continue
		}

		creds := Credentials{Vendor: v.ID, HasKey: true}
		if fileVars[v.EnvVar] != "" {
			creds.Source = SourceEnvFile
			creds.IsSecure = true
		} else {
			creds.Source = SourceHostEnv
			creds.Warning = hostEnvWarning
			log.Warn("vendor key read from host environment", map[string]interface{}{
				"vendor": v.ID,
				"envVar": v.EnvVar,
			})
		}
		env.Credentials[v.ID] = creds
		env.AvailableVendors = append(env.AvailableVendors, v.ID)
	}
	return env
}

func readEnvFile(path string, log logger.Logger) map[string]string {
	if path == "" {
		return nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		log.Debug("env file not readable for credential detection", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	return vars
}
