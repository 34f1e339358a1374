package prompt

// Package prompt composes the instruction payload sent to the model. The
// template is static; the only per-request variation is the substituted
// inputs, so identical inputs always produce identical prompts.

import (
	"fmt"
	"strings"

	"coverapi/internal/model"
)

// Prompt is the composed instruction payload for one analysis request.
type Prompt struct {
	System string
	User   string
}

// System is the fixed assessor persona. The model is steered to be
// conservative and to answer with a single JSON object.
const System = "You are an expert insurance policy analyzer. Always respond with valid JSON " +
	"following the specified format exactly. Be highly conservative in your assessments " +
	"and keep explanations to at most 40 words."

const userTemplate = `You are an expert insurance policy analyzer specializing in Policy Disclosure Statements (PDS) and Schedules of Coverage. Conduct a meticulous and conservative analysis of the %[1]s insurance documentation to answer the user's coverage question.

INSURANCE DOCUMENTS:

=== POLICY DISCLOSURE STATEMENT ===
%[2]s

=== SCHEDULE OF COVERAGE ===
%[3]s

USER QUESTION: %[4]s

INSURANCE TYPE: %[1]s insurance

ANALYSIS REQUIREMENTS:
1. Review ALL relevant clauses, definitions, exclusions, and conditions specific to %[1]s insurance
2. Ensure strict alignment between the user's question and relevant policy terms
3. Avoid conflation of unrelated coverage areas
4. Search thoroughly for dependencies, gaps, or ambiguities
5. If multiple parties may be responsible, flag this complexity
6. If mentioning 'listed events', include at least one concrete example from the policy

CONFIDENCE SCORING FRAMEWORK:
- "Highly Unlikely": 0-20%%
- "Unlikely": 21-50%%
- "Somewhat Likely": 51-65%%
- "Likely": 66-80%%
- "Highly Likely": 81-100%%

Only exceed 65%% when documentation clearly supports coverage without major contingencies. If coverage depends on specific perils, conditional clauses, or unknown circumstances, assign a mid-range or lower percentage.

RESPONSE FORMAT (JSON):
{
    "percentage_score": <integer 0-100>,
    "likelihood_ranking": "<Highly Unlikely|Unlikely|Somewhat Likely|Likely|Highly Likely>",
    "explanation": "<at most 40 words explaining the assessment, referencing relevant PDS/Schedule terms>"
}

IMPORTANT:
- Base analysis ONLY on the provided documentation
- Maintain a factual, neutral, professional tone
- Avoid speculation or overconfidence
- Provide conservative assessments with disclaimers for ambiguity
- Focus on policy interpretation, not legal advice

Respond with valid JSON only.`

// Build composes the prompt for one analysis request. Document texts are
// embedded verbatim after section-structure preparation; insuranceType and
// question are trimmed.
func Build(policy, schedule model.ExtractedText, insuranceType, question string) Prompt {
	return Prompt{
		System: System,
		User: fmt.Sprintf(userTemplate,
			strings.TrimSpace(insuranceType),
			structureText(policy.Text),
			structureText(schedule.Text),
			strings.TrimSpace(question),
		),
	}
}

// sectionHeadings are terms that commonly title the important sections of a
// policy document. Lines containing one are promoted to === markers so the
// model can navigate long extracts.
var sectionHeadings = []string{
	"policy summary", "coverage", "exclusions", "deductible",
	"limits", "conditions", "definitions", "schedule", "listed events",
}

// structureText collapses redundant whitespace and marks probable section
// headers in the extracted document text.
func structureText(text string) string {
	var lines []string
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isSectionHeading(line) {
			lines = append(lines, "=== "+line+" ===")
		} else {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func isSectionHeading(line string) bool {
	// Headings are short; a match inside a full paragraph is not a heading.
	if len(line) > 60 {
		return false
	}
	lower := strings.ToLower(line)
	for _, heading := range sectionHeadings {
		if strings.Contains(lower, heading) {
			return true
		}
	}
	return false
}
