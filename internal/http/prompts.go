package http

import (
	"fmt"
	"strings"
)

// System instructions are written in Korean to match the content
// domain. Each recognized prompt option contributes one clause; absent
// options fall back to the defaults documented here.

// lengthClause maps the lengthOption key to a target length clause.
// Default is medium (about 600 characters).
func lengthClause(option string) string {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "short":
		return "전체 분량은 약 300자로 맞춰줘."
	case "long":
		return "전체 분량은 약 1000자로 맞춰줘."
	default:
		return "전체 분량은 약 600자로 맞춰줘."
	}
}

func optionClauses(opts PromptOptions) string {
	var sb strings.Builder

	if concept := strings.TrimSpace(opts.Concept); concept != "" {
		fmt.Fprintf(&sb, "콘텐츠 콘셉트: %s.\n", concept)
	} else {
		sb.WriteString("콘텐츠 콘셉트: 시사 이슈를 알기 쉽게 풀어주는 뉴스 채널.\n")
	}

	if style := strings.TrimSpace(opts.Style); style != "" {
		fmt.Fprintf(&sb, "문체와 말투: %s.\n", style)
	}

	sb.WriteString(lengthClause(opts.LengthOption))
	sb.WriteString("\n")

	if instruction := strings.TrimSpace(opts.Instruction); instruction != "" {
		fmt.Fprintf(&sb, "추가 지시사항: %s\n", instruction)
	}

	return sb.String()
}

func transformInstruction(opts PromptOptions) string {
	return "너는 유튜브 뉴스 콘텐츠의 방송 대본 작가야. 입력으로 주어지는 글을 시청자가 듣기 편한 구어체 방송 대본으로 다시 써줘. " +
		"사실 관계(숫자, 이름, 날짜)는 바꾸지 말고, 결과 대본만 출력해.\n" + optionClauses(opts)
}

func newScriptInstruction(opts PromptOptions) string {
	return "너는 유튜브 뉴스 콘텐츠의 방송 대본 작가야. 입력으로 주어지는 주제에 대해 도입부, 본론, 마무리 멘트를 갖춘 새로운 방송 대본을 작성해줘. " +
		"결과 대본만 출력해.\n" + optionClauses(opts)
}

func structureInstruction() string {
	return "너는 콘텐츠 편집자야. 입력 글의 구성을 분석해서 도입/전개/절정/마무리 단위의 개요로 정리해줘. " +
		"각 단락이 맡은 역할과 핵심 내용을 한국어로 간결하게 설명해."
}

func summaryInstruction() string {
	return "너는 뉴스 에디터야. 입력 글의 핵심 내용을 한국어 3~5문장으로 요약해줘. 과장 없이 사실만 담아."
}

func titlesInstruction() string {
	return "너는 유튜브 콘텐츠 기획자야. 입력 글을 바탕으로 영상 제목 후보를 만들어줘. " +
		"안전하고 정확한 제목 5개와 클릭을 유도하는 자극적인 제목 5개가 필요해. " +
		`다른 설명 없이 다음 JSON 형식으로만 답해: {"safeTitles": ["..."], "clickbaitTitles": ["..."]}`
}

func thumbnailInstruction() string {
	return "너는 유튜브 썸네일 카피라이터야. 입력 글을 바탕으로 썸네일 문구를 만들어줘. " +
		"감정을 자극하는 문구 3개, 정보 전달형 문구 3개, 시각적 호기심을 끄는 문구 3개가 필요해. " +
		`다른 설명 없이 다음 JSON 형식으로만 답해: {"emotional": ["..."], "informational": ["..."], "visual": ["..."]}`
}
