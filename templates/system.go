package templates

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/tracklite/reporting/models"
	"github.com/tracklite/reporting/report"
)

//go:embed system_templates.yaml
var systemTemplatesYAML []byte

// system templates are static for the lifetime of the process; parse once.
var systemCache = cache.New(cache.NoExpiration, cache.NoExpiration)

// SavedTemplate is a report template with its configuration deserialized.
type SavedTemplate struct {
	models.ReportTemplate
	Config report.Config `json:"config"`
}

type systemTemplate struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Config      report.Config `yaml:"config"`
}

// SystemTemplates returns the built-in template catalog. Ids are stable
// across restarts so clients can reference them.
func SystemTemplates() ([]SavedTemplate, error) {
	if val, ok := systemCache.Get("system"); ok {
		return val.([]SavedTemplate), nil
	}

	var specs []systemTemplate
	if err := yaml.Unmarshal(systemTemplatesYAML, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse system templates: %w", err)
	}

	templates := make([]SavedTemplate, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Config.Validate(); err != nil {
			return nil, fmt.Errorf("system template %s is invalid: %w", spec.Name, err)
		}

		templates = append(templates, SavedTemplate{
			ReportTemplate: models.ReportTemplate{
				ID:               uuid.NewSHA1(uuid.NameSpaceOID, []byte("system-template/"+spec.Name)),
				Name:             spec.Name,
				Description:      spec.Description,
				IsSystemTemplate: true,
			},
			Config: spec.Config,
		})
	}

	systemCache.Set("system", templates, cache.NoExpiration)
	return templates, nil
}

func isSystemTemplate(id uuid.UUID) (bool, error) {
	system, err := SystemTemplates()
	if err != nil {
		return false, err
	}

	for _, tpl := range system {
		if tpl.ID == id {
			return true, nil
		}
	}

	return false, nil
}
