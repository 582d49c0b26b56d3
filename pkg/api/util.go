package api

import (
	"fmt"
	"net/url"
	"strings"
)

func PercentEncode(s string) string {
	s = url.QueryEscape(s)
	return strings.ReplaceAll(s, "+", "%20")
}

func formatPath(path string, args ...any) string {
	if len(args) == 0 {
		return path
	}

	return fmt.Sprintf(path, args...)
}
