package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iWorld-y/value_radar/pkg/search"
)

const defaultBaseURL = "https://google.serper.dev/search"

// Client Serper API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Serper 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchRequest Serper 搜索请求参数
type SearchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

// SearchResponse Serper 搜索响应
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult 单条自然搜索结果
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	serperReq := SearchRequest{
		Query: req.Query,
		Num:   req.MaxResults,
	}
	if serperReq.Num == 0 {
		serperReq.Num = 10
	}

	payload, err := json.Marshal(serperReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("X-API-KEY", c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(body))
	}

	var serperResp SearchResponse
	if err := json.Unmarshal(body, &serperResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	var results []search.Result
	for _, r := range serperResp.Organic {
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.Link,
			Content:       r.Snippet,
			PublishedDate: r.Date,
		})
	}

	return &search.Response{Results: results}, nil
}
