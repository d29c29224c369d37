package html

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-reaform/pkg/render/template/pongo"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

// RenderPreview converts a description written in Markdown into sanitized
// HTML. Raw HTML in the source is stripped down to the UGC allow list.
func RenderPreview(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	unsafe := markdown.ToHTML([]byte(normalized), nil, nil)
	return strings.TrimSpace(string(sanitizer().SanitizeBytes(unsafe)))
}

func sanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		previewPolicy = policy
	})
	return previewPolicy
}

func markdownFilter(input any, _ any) (any, error) {
	if input == nil {
		return pongo.SafeHTML(""), nil
	}
	return pongo.SafeHTML(RenderPreview(fmt.Sprint(input))), nil
}
