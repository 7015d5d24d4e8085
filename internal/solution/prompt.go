// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// systemPrompt frames the model as a solution writer.
const systemPrompt = `You are an expert programmer helping to solve coding interview problems. Provide clear, efficient solutions with detailed explanations.`

// solutionPromptTmpl is the user prompt sent for one problem. It asks for a
// single JSON object so the reply can be decoded without scraping prose.
var solutionPromptTmpl = template.Must(template.New("solution").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`Given this problem:

Title: {{.Title}}
Difficulty: {{.Difficulty}}

Description:
{{.Description}}

Examples:
{{range $i, $ex := .Examples}}Example {{inc $i}}:
Input: {{$ex.Input}}
Output: {{$ex.Output}}
{{if $ex.Explanation}}Explanation: {{$ex.Explanation}}
{{end}}{{end}}
Constraints:
{{range .Constraints}}- {{.}}
{{end}}
Write one solution in Python 3. Respond with a JSON object with exactly these string fields:
"intuition", "time_complexity", "space_complexity", "code", "explanation".
Do not include any text outside the JSON object.
`))

// renderPrompt executes the solution prompt template for rec.
func renderPrompt(rec *types.ProblemRecord) (string, error) {
	var buf bytes.Buffer
	if err := solutionPromptTmpl.Execute(&buf, rec); err != nil {
		return "", err
	}
	return buf.String(), nil
}
