package memory

import (
	"fmt"
	"os"
)

// EnvProbe abstracts process-environment access (variables and marker
// files) so deployment classification is testable without mutating the real
// environment.
type EnvProbe interface {
	Getenv(key string) string
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
}

// OSProbe is the production EnvProbe backed by the real process environment.
type OSProbe struct{}

// Getenv returns the value of the environment variable.
func (OSProbe) Getenv(key string) string { return os.Getenv(key) }

// ReadFile reads the named file.
func (OSProbe) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// FileExists reports whether the named file exists.
func (OSProbe) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Environment classifies the deployment the process runs in. It selects the
// cache allocation ratio: conservative in development, moderate under a
// container limit, aggressive on dedicated production hosts.
type Environment int

const (
	EnvironmentProduction Environment = iota
	EnvironmentDevelopment
	EnvironmentContainer
	EnvironmentServerless
)

func (e Environment) String() string {
	switch e {
	case EnvironmentProduction:
		return "production"
	case EnvironmentDevelopment:
		return "development"
	case EnvironmentContainer:
		return "container"
	case EnvironmentServerless:
		return "serverless"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// Environment variables and marker files signaling deployment mode.
var (
	developmentVars = []string{"VECMEM_ENV", "APP_ENV", "GO_ENV"}

	serverlessVars = []string{
		"AWS_LAMBDA_FUNCTION_NAME", // AWS Lambda
		"FUNCTION_TARGET",          // Google Cloud Functions
		"K_SERVICE",                // Cloud Run / Knative
		"VERCEL",                   // Vercel
	}

	containerVars = []string{
		"KUBERNETES_SERVICE_HOST",
		"DOCKER_CONTAINER",
	}

	containerMarkerFiles = []string{
		"/.dockerenv",
		"/run/.containerenv",
	}
)

// DetectEnvironment consolidates the scattered mode checks into one
// classification. Precedence: explicit development mode, then serverless
// platform markers, then container markers, then production.
func DetectEnvironment(probe EnvProbe) Environment {
	if probe == nil {
		probe = OSProbe{}
	}

	for _, v := range developmentVars {
		if probe.Getenv(v) == "development" {
			return EnvironmentDevelopment
		}
	}

	for _, v := range serverlessVars {
		if probe.Getenv(v) != "" {
			return EnvironmentServerless
		}
	}

	if containerMarkersPresent(probe) {
		return EnvironmentContainer
	}

	return EnvironmentProduction
}

func containerMarkersPresent(probe EnvProbe) bool {
	for _, v := range containerVars {
		if probe.Getenv(v) != "" {
			return true
		}
	}
	for _, f := range containerMarkerFiles {
		if probe.FileExists(f) {
			return true
		}
	}
	for _, v := range serverlessVars {
		if probe.Getenv(v) != "" {
			return true
		}
	}
	return false
}
