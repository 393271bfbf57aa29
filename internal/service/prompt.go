package service

import "strings"

const promptTemplate = `
You are a helpful assistant that analyzes CSV data and answers questions about it.
Below is the content of a CSV file:

{csv_content}

Based on this data, please answer the following question:
{query}

Provide a clear and concise response based only on the data shown above.
`

func buildPrompt(content, question string) string {
	return strings.NewReplacer("{csv_content}", content, "{query}", question).Replace(promptTemplate)
}
