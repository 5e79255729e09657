package factory

import (
	"fmt"

	"github.com/iWorld-y/value_radar/pkg/config"
	"github.com/iWorld-y/value_radar/pkg/search"
	"github.com/iWorld-y/value_radar/pkg/serper"
	"github.com/iWorld-y/value_radar/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：优先 serper，其次 tavily
		if cfg.Search.Serper.APIKey != "" {
			provider = "serper"
		} else if cfg.Search.Tavily.APIKey != "" {
			provider = "tavily"
		} else {
			return nil, fmt.Errorf("search provider not configured")
		}
	}

	switch provider {
	case "serper":
		if cfg.Search.Serper.APIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return serper.NewClient(cfg.Search.Serper.APIKey), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
