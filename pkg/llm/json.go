package llm

import "strings"

// StripCodeFence removes a Markdown code fence (``` or ```json) around a
// model answer.
func StripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	response = strings.Trim(response, "`")
	response = strings.TrimSpace(response)
	if strings.HasPrefix(strings.ToLower(response), "json") {
		response = response[4:]
	}
	return strings.TrimSpace(response)
}

// ExtractJSON strips fences and cuts the answer down to its outermost JSON
// object or array, for models that wrap JSON in prose.
func ExtractJSON(response string) string {
	response = StripCodeFence(response)

	open, close := "{", "}"
	if i := strings.IndexAny(response, "[{"); i >= 0 && response[i] == '[' {
		open, close = "[", "]"
	}
	start := strings.Index(response, open)
	end := strings.LastIndex(response, close)
	if start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}
