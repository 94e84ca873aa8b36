package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/steveyegge/launchgate/internal/checklist"
)

// Template group names.
const (
	ProductTemplateName     = "Product"
	EngineeringTemplateName = "Engineering"
)

// JiraSettings is the typed jira.* block.
type JiraSettings struct {
	URL      string
	Username string
	APIToken string
	PageSize int
	Timeout  time.Duration
}

// GetJiraSettings returns the Jira connection settings, failing when the
// URL or API token is missing.
func GetJiraSettings() (JiraSettings, error) {
	s := JiraSettings{
		URL:      GetString(KeyJiraURL),
		Username: GetString(KeyJiraUsername),
		APIToken: GetString(KeyJiraAPIToken),
		PageSize: GetInt(KeyJiraPageSize),
		Timeout:  GetDuration(KeyJiraTimeout),
	}
	if s.URL == "" {
		return s, fmt.Errorf("jira.url not configured (set it in %s/config.yaml or the JIRA_URL environment variable)", ConfigDir)
	}
	if s.APIToken == "" {
		return s, fmt.Errorf("jira.api_token not configured (set it in %s/config.yaml or the JIRA_API_TOKEN environment variable)", ConfigDir)
	}
	return s, nil
}

// ResolverSettings is the typed resolver.* block.
type ResolverSettings struct {
	LinkTypes       []string
	ContainerSuffix string
	Concurrency     int
}

// GetResolverSettings returns the engineering resolver settings.
func GetResolverSettings() ResolverSettings {
	return ResolverSettings{
		LinkTypes:       GetStringSlice(KeyResolverLinkTypes),
		ContainerSuffix: GetString(KeyResolverContainerSuffix),
		Concurrency:     GetInt(KeyResolverConcurrency),
	}
}

// GetRefreshInterval returns how often lg watch reloads; zero disables it.
func GetRefreshInterval() time.Duration {
	d := GetDuration(KeyWatchRefreshInterval)
	if d < 0 {
		return 0
	}
	return d
}

// Templates returns the configured checklist templates, Product first.
func Templates() []checklist.Template {
	product := GetStringSlice(KeyTemplatesProduct)
	if v == nil {
		product = DefaultProductTitles
	}
	return []checklist.Template{
		{Name: ProductTemplateName, Titles: product},
		{Name: EngineeringTemplateName, Titles: GetStringSlice(KeyTemplatesEngineering)},
	}
}

// LoadTemplatesFile reads templates from a standalone YAML or TOML file:
//
//	templates:
//	  - name: Product
//	    titles: [Documentation, Legal Review]
//
// The file must define at least one template with a name.
func LoadTemplatesFile(path string) ([]checklist.Template, error) {
	fv := viper.New()
	fv.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		fv.SetConfigType("toml")
	case ".yaml", ".yml":
		fv.SetConfigType("yaml")
	default:
		return nil, fmt.Errorf("unsupported templates file %s (want .yaml, .yml or .toml)", path)
	}
	if err := fv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}

	var templates []checklist.Template
	if err := fv.UnmarshalKey("templates", &templates); err != nil {
		return nil, fmt.Errorf("parse templates file %s: %w", path, err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("templates file %s defines no templates", path)
	}
	for i, t := range templates {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("templates file %s: template %d has no name", path, i+1)
		}
	}
	return templates, nil
}
