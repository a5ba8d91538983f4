package generation

import (
	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/subject"
	"github.com/mkravtsov/contentgen/pkg/htmltext"
)

// Action is one of the closed set of generation operations. Each action
// carries its own context builder; there is no dynamic method dispatch.
type Action string

const (
	ActionSetSEOParams   Action = "set_seo_params"
	ActionSetDescription Action = "set_description"
	ActionUpgradeName    Action = "upgrade_name"
	ActionSetSomeParams  Action = "set_some_params"
)

// seoDescriptionLimit caps the description context sent with SEO requests.
const seoDescriptionLimit = 317

type actionSpec struct {
	endpoint string
	build    func(s *subject.Subject) map[string]string
}

var actionTable = map[Action]actionSpec{
	ActionSetSEOParams: {
		endpoint: "content_generator_set_seo_params",
		build: func(s *subject.Subject) map[string]string {
			return map[string]string{
				"name":        s.Name,
				"description": htmltext.Truncate(htmltext.Text(s.Description), seoDescriptionLimit),
			}
		},
	},
	ActionSetDescription: {
		endpoint: "content_generator_set_description",
		build: func(s *subject.Subject) map[string]string {
			if s.Type == subject.TypeCategory {
				return map[string]string{
					"category":             s.Name,
					"category_description": htmltext.Text(s.Description),
				}
			}
			return map[string]string{
				"name":            s.Name,
				"category_name":   s.Category,
				"description":     htmltext.Text(s.Description),
				"characteristics": s.Attributes,
			}
		},
	},
	ActionUpgradeName: {
		endpoint: "content_generator_upgrade_name",
		build: func(s *subject.Subject) map[string]string {
			return map[string]string{
				"name":       s.Name,
				"category":   s.Category,
				"attributes": s.Attributes,
			}
		},
	},
	ActionSetSomeParams: {
		endpoint: "content_generator_set_some_params",
		build: func(s *subject.Subject) map[string]string {
			if s.Type == subject.TypeCategory {
				return map[string]string{
					"category_name":       s.Name,
					"category_attributes": s.Attributes,
				}
			}
			return map[string]string{
				"product_name":       s.Name,
				"category_name":      s.Category,
				"product_attributes": s.Attributes,
			}
		},
	},
}

// ParseAction validates a caller-supplied action tag.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if _, ok := actionTable[a]; !ok {
		return "", apperr.Validation("action", "unknown action "+raw)
	}
	return a, nil
}

// Endpoint names the provider endpoint the action targets.
func (a Action) Endpoint() string {
	return actionTable[a].endpoint
}

// BuildContext assembles the subject fields sent alongside the prompt.
func (a Action) BuildContext(s *subject.Subject) map[string]string {
	return actionTable[a].build(s)
}
