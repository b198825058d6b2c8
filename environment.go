package gocert

import (
	"os"
	"strings"
)

// DeploymentEnvironment reports facts about the process's deployment that
// affect font handling.
type DeploymentEnvironment interface {
	// IsConstrained reports a restricted or serverless runtime in which
	// custom font registration and extended characters are unreliable.
	IsConstrained() bool
}

// StaticEnvironment is a DeploymentEnvironment with a fixed answer.
type StaticEnvironment bool

// IsConstrained implements DeploymentEnvironment.
func (s StaticEnvironment) IsConstrained() bool { return bool(s) }

// serverlessMarkers are variables set by common serverless platforms.
var serverlessMarkers = []string{
	"VERCEL",
	"AWS_LAMBDA_FUNCTION_NAME",
	"NETLIFY",
	"FUNCTION_TARGET",
	"AZURE_FUNCTIONS_ENVIRONMENT",
}

// ProcessEnvironment detects constrained runtimes from process environment
// variables. GOCERT_CONSTRAINED, when set to a boolean, overrides detection.
type ProcessEnvironment struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// IsConstrained implements DeploymentEnvironment.
func (p ProcessEnvironment) IsConstrained() bool {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvConstrained); v != "" {
		if b, err := parseBool(v); err == nil {
			return b
		}
	}
	for _, name := range serverlessMarkers {
		if strings.TrimSpace(getenv(name)) != "" {
			return true
		}
	}
	return false
}
