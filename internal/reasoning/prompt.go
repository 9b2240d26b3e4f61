package reasoning

import _ "embed"

//go:embed prompts/eligibility_v1.txt
var eligibilityPromptV1 string

// PromptText returns the fixed instruction text sent with every assessment.
func PromptText() string {
	return eligibilityPromptV1
}
