package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/subject"
)

func TestParseActionKnown(t *testing.T) {
	for _, raw := range []string{
		"set_seo_params",
		"set_description",
		"upgrade_name",
		"set_some_params",
	} {
		action, err := ParseAction(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, string(action))
		assert.Equal(t, "content_generator_"+raw, action.Endpoint())
	}
}

func TestParseActionUnknown(t *testing.T) {
	_, err := ParseAction("drop_tables")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "action", verr.Field)
}

func TestBuildContextSEOTruncatesDescription(t *testing.T) {
	long := strings.Repeat("о", 500)
	s := &subject.Subject{
		Type:        subject.TypeProduct,
		ID:          1,
		Name:        "Чайник электрический",
		Description: "<p>" + long + "</p>",
	}

	ctx := ActionSetSEOParams.BuildContext(s)
	assert.Equal(t, "Чайник электрический", ctx["name"])
	assert.Equal(t, seoDescriptionLimit, len([]rune(ctx["description"])))
	assert.NotContains(t, ctx["description"], "<p>")
}

func TestBuildContextDescriptionProduct(t *testing.T) {
	s := &subject.Subject{
		Type:        subject.TypeProduct,
		ID:          1,
		Name:        "Чайник",
		Category:    "Кухня",
		Description: "<b>стальной</b> корпус",
		Attributes:  "мощность: 2000 Вт",
	}

	ctx := ActionSetDescription.BuildContext(s)
	assert.Equal(t, map[string]string{
		"name":            "Чайник",
		"category_name":   "Кухня",
		"description":     "стальной корпус",
		"characteristics": "мощность: 2000 Вт",
	}, ctx)
}

func TestBuildContextDescriptionCategory(t *testing.T) {
	s := &subject.Subject{
		Type:        subject.TypeCategory,
		ID:          7,
		Name:        "Кухня",
		Description: "товары для кухни",
	}

	ctx := ActionSetDescription.BuildContext(s)
	assert.Equal(t, map[string]string{
		"category":             "Кухня",
		"category_description": "товары для кухни",
	}, ctx)
}

func TestBuildContextUpgradeName(t *testing.T) {
	s := &subject.Subject{
		Type:       subject.TypeProduct,
		ID:         1,
		Name:       "Чайник",
		Category:   "Кухня",
		Attributes: "цвет: белый",
	}

	ctx := ActionUpgradeName.BuildContext(s)
	assert.Equal(t, map[string]string{
		"name":       "Чайник",
		"category":   "Кухня",
		"attributes": "цвет: белый",
	}, ctx)
}

func TestBuildContextSomeParamsByType(t *testing.T) {
	product := &subject.Subject{Type: subject.TypeProduct, Name: "Чайник", Category: "Кухня", Attributes: "a: b"}
	category := &subject.Subject{Type: subject.TypeCategory, Name: "Кухня", Attributes: "c: d"}

	assert.Equal(t, map[string]string{
		"product_name":       "Чайник",
		"category_name":      "Кухня",
		"product_attributes": "a: b",
	}, ActionSetSomeParams.BuildContext(product))

	assert.Equal(t, map[string]string{
		"category_name":       "Кухня",
		"category_attributes": "c: d",
	}, ActionSetSomeParams.BuildContext(category))
}
