package generation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Template is a prompt with {name} placeholders.
type Template string

const (
	FacebookPost Template = `Create an engaging Facebook post about {topic}.
Make it friendly, conversational, and include a call-to-action.
Maximum length: {max_length} characters.`

	ProductPromotion Template = `Write a promotional Facebook post for {product}.
Highlight key benefits: {benefits}.
Include emotional appeal and urgency.
End with a clear call-to-action.`

	StoryPost Template = `Tell a brief, engaging story about {topic}.
Make it relatable and emotional.
Connect it to {brand_message}.`

	QuestionPost Template = `Create an engaging question post about {topic}.
Encourage audience interaction and comments.
Make it thought-provoking but easy to answer.`
)

// Templates maps the names accepted on the command line to templates.
var Templates = map[string]Template{
	"facebook_post":     FacebookPost,
	"product_promotion": ProductPromotion,
	"story_post":        StoryPost,
	"question_post":     QuestionPost,
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Render fills every placeholder from vars. A placeholder without a value is
// an error.
func Render(t Template, vars map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(string(t), func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("missing template values: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// TemplateNames returns the registered template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for n := range Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
