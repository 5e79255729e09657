package scrape

import (
	"fmt"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	defaultTimeout = 30 * time.Second
	// 截断过长正文，避免撑爆 LLM 上下文
	maxContentLen = 8000
)

// FetchText 抓取 URL 并提取核心文本
func FetchText(url string) (string, error) {
	article, err := readability.FromURL(url, defaultTimeout)
	if err != nil {
		return "", fmt.Errorf("fetch %s failed: %w", url, err)
	}

	content := article.TextContent
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	return content, nil
}
