// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package ci detects which CI/CD system, if any, is running the program.
package ci

import "os"

// Provider names recorded in run history.
const (
	ProviderGitHubActions = "github-actions"
	ProviderGitLab        = "gitlab-ci"
	ProviderJenkins       = "jenkins"
	ProviderCircleCI      = "circleci"
	ProviderBuildkite     = "buildkite"
	ProviderAzure         = "azure-pipelines"
	ProviderGeneric       = "ci"
	ProviderLocal         = "local"
)

// Environment describes the pipeline an invocation ran in.
// Fields other than Provider are empty when the provider does not expose them.
type Environment struct {
	Provider string
	Pipeline string // workflow, project or job name
	RunID    string
	Commit   string
	Ref      string
}

// IsCI reports whether a CI system was detected.
func (e Environment) IsCI() bool {
	return e.Provider != "" && e.Provider != ProviderLocal
}

// detector maps a provider's marker variable to the variables holding its details.
type detector struct {
	provider string
	marker   string
	pipeline string
	runID    string
	commit   string
	ref      string
}

// Order matters: most providers also set CI=true, so the generic check is last.
var detectors = []detector{
	{ProviderGitHubActions, "GITHUB_ACTIONS", "GITHUB_WORKFLOW", "GITHUB_RUN_ID", "GITHUB_SHA", "GITHUB_REF"},
	{ProviderGitLab, "GITLAB_CI", "CI_PROJECT_PATH", "CI_PIPELINE_ID", "CI_COMMIT_SHA", "CI_COMMIT_REF_NAME"},
	{ProviderJenkins, "JENKINS_URL", "JOB_NAME", "BUILD_NUMBER", "GIT_COMMIT", "GIT_BRANCH"},
	{ProviderCircleCI, "CIRCLECI", "CIRCLE_PROJECT_REPONAME", "CIRCLE_BUILD_NUM", "CIRCLE_SHA1", "CIRCLE_BRANCH"},
	{ProviderBuildkite, "BUILDKITE", "BUILDKITE_PIPELINE_SLUG", "BUILDKITE_BUILD_NUMBER", "BUILDKITE_COMMIT", "BUILDKITE_BRANCH"},
	{ProviderAzure, "TF_BUILD", "BUILD_DEFINITIONNAME", "BUILD_BUILDID", "BUILD_SOURCEVERSION", "BUILD_SOURCEBRANCH"},
}

// Detect inspects environment variables through getenv.
func Detect(getenv func(string) string) Environment {
	for _, d := range detectors {
		if getenv(d.marker) == "" {
			continue
		}
		return Environment{
			Provider: d.provider,
			Pipeline: getenv(d.pipeline),
			RunID:    getenv(d.runID),
			Commit:   getenv(d.commit),
			Ref:      getenv(d.ref),
		}
	}

	if isTrue(getenv("CI")) {
		return Environment{Provider: ProviderGeneric}
	}
	return Environment{Provider: ProviderLocal}
}

// DetectFromOS is Detect over the process environment.
func DetectFromOS() Environment {
	return Detect(os.Getenv)
}

func isTrue(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}
