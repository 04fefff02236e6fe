package insight

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanMarkdownWrapper strips code-fence markers some models wrap
// around JSON responses despite instructions not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}

// parseInsights parses a provider response into a list of advisory
// strings. Anything that is not a JSON array of strings is an error.
func parseInsights(content string) ([]string, error) {
	cleaned := cleanMarkdownWrapper(content)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var insights []string
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("response is not a JSON string array: %w", err)
	}

	// Drop blank entries; models occasionally pad the array.
	filtered := insights[:0]
	for _, insight := range insights {
		if s := strings.TrimSpace(insight); s != "" {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) == 0 {
		return nil, fmt.Errorf("no insights in response")
	}

	return filtered, nil
}
