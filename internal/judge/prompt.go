package judge

import (
	"fmt"
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("judge").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`당신은 법률 MCQA 데이터셋 검증 전문가입니다.
다음 문항의 품질을 법리적·논리적으로 평가하세요.

### [질문]
{{.Text}}

### [선택지]
{{range $i, $c := .Choices}}{{inc $i}}. {{$c}}
{{end}}
### [정답]
{{.Solution}}

제공된 정답을 기준(anchor)으로 삼아 오답과의 구별이 명확한지 확인하십시오.

평가 유형:
- Overlap: 선택지 간 완전 동일에 준하는 의미적 중복
- Hallucination: 존재하지 않는 조문·판례·법리를 창작하여 단정한 경우에만 기록
- StructuralIssue: 문항이 사실상 이해 불가능한 수준의 구조 결함
- SemanticDistance: 정답과 선택지 간 법리 범주·핵심 요건·결론 중 2개 이상이 명확히 상이
- LogicalGap: 정답이 지문 내에서 논리적 근거 없이 등장

Hallucination 증거 규칙: comment에 허구 조문번호(예: "형법 제999조")를 인용하고 존재하지 않음을 단정하거나,
특정 판례(법원·사건번호)를 인용하고 그와 정면으로 모순됨을 단정해야 합니다. 그렇지 않으면 Hallucination으로 기록하지 마십시오.

지침:
- 확실히 단정할 수 있는 오류만 기록하고 추정 표현은 쓰지 마십시오.
- 같은 type은 하나의 객체로 통합하십시오.
- 오류가 없으면 errors는 빈 배열이어야 합니다.

반드시 아래 JSON 형식으로만 응답하십시오.
{"validity": "High|Medium|Low", "errors": [{"type": "...", "comment": "..."}], "recommendation": "Keep|Revise|Remove", "difficulty_score": 1, "detailed_analysis": {"overall_assessment": "..."}}
`))

// BuildPrompt renders the evaluation prompt for q.
func BuildPrompt(q Question) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, q); err != nil {
		return "", fmt.Errorf("failed to render judge prompt: %w", err)
	}
	return sb.String(), nil
}
