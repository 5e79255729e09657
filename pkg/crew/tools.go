package crew

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/value_radar/pkg/search"
)

// SearchInput search_web 工具入参
type SearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// SearchOutput search_web 工具出参
type SearchOutput struct {
	Results []SearchItem `json:"results"`
}

// SearchItem 单条搜索结果
type SearchItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// NewSearchTool 创建网络搜索工具
func NewSearchTool(s search.Searcher) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "search_web",
			Desc: "Search the internet for current information about companies, financial data, ratios and news",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search query",
					Required: true,
				},
				"max_results": {
					Type:     "integer",
					Desc:     "Maximum number of results to return (default: 10)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input SearchInput) (*SearchOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}

			maxResults := input.MaxResults
			if maxResults <= 0 {
				maxResults = 10
			}

			resp, err := s.Search(ctx, &search.Request{
				Query:      input.Query,
				MaxResults: maxResults,
			})
			if err != nil {
				return nil, err
			}

			out := &SearchOutput{}
			for _, r := range resp.Results {
				out.Results = append(out.Results, SearchItem{
					Title:         r.Title,
					URL:           r.URL,
					Content:       r.Content,
					PublishedDate: r.PublishedDate,
				})
			}
			return out, nil
		},
	)
}

// ScrapeFunc 抓取网页正文的函数签名
type ScrapeFunc func(url string) (string, error)

// ScrapeInput scrape_website 工具入参
type ScrapeInput struct {
	URL string `json:"url"`
}

// ScrapeOutput scrape_website 工具出参
type ScrapeOutput struct {
	Content string `json:"content"`
}

// NewScrapeTool 创建网页抓取工具
func NewScrapeTool(fetch ScrapeFunc) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "scrape_website",
			Desc: "Fetch a web page and extract its readable text content",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"url": {
					Type:     "string",
					Desc:     "The URL of the web page to scrape",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input ScrapeInput) (*ScrapeOutput, error) {
			if input.URL == "" {
				return nil, fmt.Errorf("url parameter is required")
			}
			content, err := fetch(input.URL)
			if err != nil {
				return nil, err
			}
			return &ScrapeOutput{Content: content}, nil
		},
	)
}
