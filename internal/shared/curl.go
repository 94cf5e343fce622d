// Utilities for extracting a bearer token from a browser "Copy as cURL" command.
//
// The web dashboard sends the bearer token on every request, so a request
// copied from DevTools is a convenient way to seed the CLI session.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders represents parsed headers from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*CurlHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			headers[strings.ToLower(key)] = value
		}
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{Headers: headers}, nil
}

// BearerToken returns the token from the Authorization header, if present.
func (c *CurlHeaders) BearerToken() (string, error) {
	auth, ok := c.Headers["authorization"]
	if !ok {
		return "", fmt.Errorf("no Authorization header in curl command")
	}

	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer"))
	if token == "" || token == auth {
		return "", fmt.Errorf("Authorization header is not a bearer credential")
	}

	return token, nil
}
