package backend

import (
	"strings"
)

// FillIndicator marks the cursor in the prompt sent to language models.
const FillIndicator = "<FILL>"

// SystemPrompt is the system instruction for chat-style providers.
const SystemPrompt = `You are a helpful code copilot who helps a software developer to code. ` +
	`You will fill in the middle of the code where "<FILL>" is indicated. ` +
	`Reply with a JSON object of the form {"snippet": "..."} and nothing else.`

const promptTemplate = `You must make sure your code snippet(s) are related and continue the code before it. ` +
	`E.g. if the developer spells "ap" and you suggest "apple", it is continuing the word.

You must also make sure the indentation and line breaks are correct. ` +
	`If your snippet contains multiple lines, each line must end with a new line character; ` +
	`if "<FILL>" appears at the end of a line and the code before "<FILL>" is a complete line, ` +
	`your code snippet(s) must start with a line break. E.g. "\nconsole.log('hello world');".

If the previous code before "<FILL>" is a comment, you can suggest a code snippet that is related to the comment.

Code file:
` + "```" + `
{code}
` + "```" + `

Review the above code, then provide one inline snippet indicated at "<FILL>".
`

// WithIndicator returns text with FillIndicator inserted at the 1-based line
// and byte column. Out of range positions are clamped.
func WithIndicator(text string, line, column int) string {
	lines := strings.Split(text, "\n")
	li := min(max(line-1, 0), len(lines)-1)
	l := lines[li]
	ci := min(max(column-1, 0), len(l))
	lines[li] = l[:ci] + FillIndicator + l[ci:]
	return strings.Join(lines, "\n")
}

// Prompt builds the user prompt for req.
func Prompt(req Request) string {
	return strings.Replace(promptTemplate, "{code}", WithIndicator(req.Text, req.Line, req.Column), 1)
}
