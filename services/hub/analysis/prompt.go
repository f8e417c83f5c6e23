package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysisPrompt is the instruction block sent alongside the document.
// Output text must be pt-BR because that is what residents read; the
// envelope schema itself is fixed and language-neutral.
const analysisPrompt = `Analise este regulamento interno de condomínio e responda SOMENTE com um objeto JSON, sem texto adicional, no formato:
{
  "regulations": [
    {
      "title": "Título curto e direto para a regra",
      "category": "Uma de: Geral, Silêncio e Ruídos, Animais de Estimação, Garagem e Tráfego, Áreas Comuns e Lazer, Obras e Reformas, Segurança e Acesso, Lixo e Sustentabilidade, Taxas e Multas, Assembleias e Gestão",
      "content": "O texto técnico original da regra",
      "summary": "Um resumo de 1 frase em linguagem simples",
      "explanation": "Explique POR QUE a regra existe de forma amigável",
      "importance": "Por que esta regra é importante para a comunidade",
      "tags": ["palavras-chave", "para", "busca"]
    }
  ],
  "updateSummary": {
    "reason": "Motivo geral das mudanças detectadas",
    "changes": [
      {"type": "added|removed|modified", "itemTitle": "Título da regra afetada", "description": "Descrição da mudança"}
    ]
  }
}

IMPORTANT: All output text must be in Portuguese (Brazil). Explain each rule in a friendly way for residents.
The "regulations" array must be the COMPLETE new rule set extracted from the document, never a delta.`

const comparisonInstructions = `Compare the extracted rules against the current rule set below and fill "updateSummary" with every added, removed or modified rule. If nothing changed, "changes" must be an empty array.

Current rule set (JSON):
%s`

const firstRunInstructions = `There is no current rule set: this is the initial deployment. Leave "changes" as an empty array and state in "reason" that this is the first published version of the regulations.`

// buildPrompt assembles the full instruction text for one analysis
// call, embedding the comparison context as JSON.
func buildPrompt(current []RuleContext) (string, error) {
	var b strings.Builder
	b.WriteString(analysisPrompt)
	b.WriteString("\n\n")
	if len(current) == 0 {
		b.WriteString(firstRunInstructions)
		return b.String(), nil
	}
	contextJSON, err := json.Marshal(current)
	if err != nil {
		return "", fmt.Errorf("failed to serialize comparison context: %w", err)
	}
	fmt.Fprintf(&b, comparisonInstructions, string(contextJSON))
	return b.String(), nil
}
