package agent

import "regexp"

var (
	finalAnswerRe = regexp.MustCompile(`(?s)<final_answer>(.*?)</final_answer>`)
	actionRe      = regexp.MustCompile(`(?s)<action>(.*?)</action>`)
)

// extractFinalAnswer returns the text of the first complete final answer span.
func extractFinalAnswer(content string) (string, bool) {
	m := finalAnswerRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractAction(content string) (string, bool) {
	m := actionRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
