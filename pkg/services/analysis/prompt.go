package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

const analysisTemplate = `Analyze the following audit findings and suggest risk categories and remediation steps.

Findings:
%s

Reply with a single JSON object and nothing else, using exactly these keys:
{"summary": string, "riskRating": string, "suggestedRemediation": [string], "complianceImplications": string}`

const reportTemplate = `Draft a formal executive summary for an audit project with these details:
%s

Write plain prose suitable for an audit committee. Do not use markdown headings.`

func analysisPrompt(findings string) string {
	return fmt.Sprintf(analysisTemplate, strings.TrimSpace(findings))
}

func reportPrompt(projectJSON string) string {
	return fmt.Sprintf(reportTemplate, projectJSON)
}

type analysisReply struct {
	Summary                string   `json:"summary"`
	RiskRating             string   `json:"riskRating"`
	SuggestedRemediation   []string `json:"suggestedRemediation"`
	ComplianceImplications string   `json:"complianceImplications"`
}

// parseAnalysis reads the model's JSON reply, tolerating a fenced code block
// or prose around the object.
func parseAnalysis(text string) (domain.Analysis, error) {
	body := strings.TrimSpace(text)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis reply: %w", err)
	}
	if reply.SuggestedRemediation == nil {
		reply.SuggestedRemediation = []string{}
	}
	return domain.Analysis{
		Summary:                reply.Summary,
		RiskRating:             reply.RiskRating,
		SuggestedRemediation:   reply.SuggestedRemediation,
		ComplianceImplications: reply.ComplianceImplications,
	}, nil
}
