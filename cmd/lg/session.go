package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/launchgate/internal/checklist"
	"github.com/steveyegge/launchgate/internal/config"
	"github.com/steveyegge/launchgate/internal/debug"
	"github.com/steveyegge/launchgate/internal/jira"
	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/resolver"
	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/telemetry"
)

// openSource returns the issue source for this invocation: the --fixture
// file when given, otherwise the configured Jira instance.
func openSource() (source.IssueSource, error) {
	if fixtureFile != "" {
		mem, err := source.LoadFixture(fixtureFile)
		if err != nil {
			return nil, err
		}
		debug.Logf("using fixture %s\n", fixtureFile)
		return telemetry.WrapSource(mem), nil
	}

	settings, err := config.GetJiraSettings()
	if err != nil {
		return nil, err
	}
	client := jira.NewClient(settings.URL, settings.Username, settings.APIToken)
	if settings.PageSize > 0 {
		client.PageSize = settings.PageSize
	}
	if settings.Timeout > 0 {
		client.HTTPClient.Timeout = settings.Timeout
	}
	client.UserAgent = "lg/" + Version
	debug.Logf("using jira %s\n", client.URL)
	return telemetry.WrapSource(client), nil
}

// loadTemplates returns the --templates file contents or the configured templates.
func loadTemplates() ([]checklist.Template, error) {
	if templatesFile != "" {
		return config.LoadTemplatesFile(templatesFile)
	}
	return config.Templates(), nil
}

// browseBase is the Jira base URL for item links; empty in fixture mode.
func browseBase() string {
	if fixtureFile != "" {
		return ""
	}
	return config.GetString(config.KeyJiraURL)
}

// newSession parses ref and builds a session over the configured source.
func newSession(ref string) (*launch.Session, error) {
	key, err := jira.ParseIssueRef(ref)
	if err != nil {
		return nil, err
	}
	src, err := openSource()
	if err != nil {
		return nil, err
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	logger := debug.Logger()
	res := resolver.New(src, logger)
	rs := config.GetResolverSettings()
	if len(rs.LinkTypes) > 0 {
		res.LinkTypes = rs.LinkTypes
	}
	if rs.ContainerSuffix != "" {
		res.ContainerSuffix = rs.ContainerSuffix
	}
	if rs.Concurrency > 0 {
		res.Concurrency = rs.Concurrency
	}

	return launch.NewSession(key, src, launch.Options{
		Templates: templates,
		Resolver:  res,
		Logger:    logger,
	}), nil
}

// mustSession is newSession for command handlers; it exits on error.
func mustSession(cmd *cobra.Command, ref string) *launch.Session {
	session, err := newSession(ref)
	if err != nil {
		if fixtureFile == "" && config.GetString(config.KeyJiraURL) == "" {
			FatalErrorWithHint(err.Error(), "configure jira.url in "+config.ConfigDir+"/config.yaml, or pass --fixture FILE")
		}
		FatalError("%v", err)
	}
	debug.Logf("%s session %s for %s\n", cmd.Name(), session.ID, session.ParentKey)
	return session
}
