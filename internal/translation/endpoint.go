package translation

import (
	"net/url"
	"strings"
)

// DefaultEndpoint points to the hosted completion API.
const DefaultEndpoint = "https://api.openai.com/v1"

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return parsed.String()
}

// responsesURL resolves the Responses API URL for a configured endpoint.
func responsesURL(endpoint string) string {
	return resourceURL(endpoint, "/responses")
}

// chatCompletionsURL resolves the chat completions URL for a configured endpoint.
func chatCompletionsURL(endpoint string) string {
	return resourceURL(endpoint, "/chat/completions")
}

func resourceURL(endpoint, resource string) string {
	normalized := normalizeEndpoint(endpoint)
	parsed, err := url.Parse(normalized)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint + resource
	}

	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, resource):
		parsed.Path = path
	case strings.HasSuffix(path, "/v1"):
		parsed.Path = path + resource
	case path == "":
		parsed.Path = "/v1" + resource
	default:
		parsed.Path = path + "/v1" + resource
	}

	return parsed.String()
}
