package synthesis

import "fmt"

const partialAnswerTemplate = `Given the following query and summary, please provide a partial answer to the query based on the summary.

Query: %s

Summary: %s

Partial Answer:
`

const finalAnswerTemplate = `Given the following query and partial answers, please provide a final global answer.

Query: %s

Partial Answers:
%s

Final Answer:
`

// PartialAnswerPrompt builds the generation prompt for a single candidate
func PartialAnswerPrompt(query string, summary string) string {
	return fmt.Sprintf(partialAnswerTemplate, query, summary)
}

// FinalAnswerPrompt builds the generation prompt combining all partial answers
func FinalAnswerPrompt(query string, partialAnswers string) string {
	return fmt.Sprintf(finalAnswerTemplate, query, partialAnswers)
}
