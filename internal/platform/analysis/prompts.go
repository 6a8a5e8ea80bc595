package analysis

import (
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SystemPrompt steers the model toward a humanized but clinically phrased
// intake report. It is a best-effort instruction, not a verifiable contract.
const SystemPrompt = `You are Clinexa, an advanced clinical intake intelligence.
Your goal is to parse raw patient symptoms into professional clinical summaries for doctors.
1. Humanize the summary: describe how the patient is feeling, not just symptoms.
2. Be clinical: use professional terminology where appropriate for the extracted lists.
3. Safety first: always identify red flags that might indicate life-threatening conditions.
4. Triage: assign a risk score and urgency level based on standard clinical guidelines.`

func userPrompt(rawText string) string {
	return fmt.Sprintf("Analyze this patient's symptoms and provide a structured clinical intake report.\n"+
		"Focus on being both clinically accurate and empathetic.\n"+
		"Patient Input: %s", rawText)
}

// reportSchema is the fixed response schema. All six fields are required;
// the service must not add or omit fields.
var reportSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"brief_summary": {
			Type:        jsonschema.String,
			Description: "A clinical yet humanized summary of the patient narrative.",
		},
		"extracted_symptoms": {
			Type:        jsonschema.Array,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
			Description: "Medical symptoms identified from user input.",
		},
		"possible_causes": {
			Type:        jsonschema.Array,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
			Description: "Potential conditions for clinical context only.",
		},
		"red_flags": {
			Type:        jsonschema.Array,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
			Description: "Urgent warning signs or complications.",
		},
		"risk_score": {
			Type:        jsonschema.Integer,
			Description: "Risk level 0-100.",
		},
		"urgency": {
			Type:        jsonschema.String,
			Enum:        []string{"Low", "Medium", "High", "Emergency"},
			Description: "Overall triage urgency.",
		},
	},
	Required:             []string{"brief_summary", "extracted_symptoms", "possible_causes", "red_flags", "risk_score", "urgency"},
	AdditionalProperties: false,
}
