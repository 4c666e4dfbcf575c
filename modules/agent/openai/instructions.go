package openai

import (
	"path/filepath"
	"strings"
	"time"
)

// defaultInstructions is the analyst instruction template used when the
// config does not override it. The run is one-shot: no dialogue, the
// answer is delivered by email verbatim.
const defaultInstructions = `You are a senior financial-data analyst.

You will receive a task description (not a conversation), for example:
- "Summarize the total sales per branch in the last quarter"
- "List all failed refund transactions in April"

Your goal is to:
1. Interpret the task
2. Write and execute Python code against the attached dataset
3. Produce a professional, email-ready summary of the result

Very important:
- There is no chat or dialogue; you will not ask follow-up questions
- This is a one-shot task, and your response will be sent by email as-is
- Include a brief subject-style heading if appropriate
- Be concise, formal, and helpful

Dataset file: {{dataset}}
Today's datetime is {{now}}.`

// instructionTimeFormat matches the timestamp the template expects.
const instructionTimeFormat = "2006-01-02 15:04:05"

// buildInstructions renders the instruction template for one
// invocation: the template is single-use and carries the current
// timestamp so relative date ranges in task descriptions resolve.
func (inv *Invoker) buildInstructions(now time.Time) string {
	tmpl := inv.config.Instructions
	if tmpl == "" {
		tmpl = defaultInstructions
	}

	out := strings.ReplaceAll(tmpl, "{{now}}", now.Format(instructionTimeFormat))
	out = strings.ReplaceAll(out, "{{dataset}}", filepath.Base(inv.config.DatasetPath))
	return out
}
