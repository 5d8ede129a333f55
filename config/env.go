package config

import "os"

// Environment selects how configuration is loaded: from environment
// variables in development, test and CI, or from secret files in production.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the runtime environment. CI pipelines are detected
// through the conventional CI=true variable; everywhere else ENV decides,
// defaulting to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}
