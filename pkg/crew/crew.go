package crew

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/value_radar/pkg/config"
	"github.com/iWorld-y/value_radar/pkg/logger"
	"github.com/iWorld-y/value_radar/pkg/scrape"
	"github.com/iWorld-y/value_radar/pkg/search/factory"
)

const maxAgentSteps = 40

// specialist 绑定角色描述与其 react agent
type specialist struct {
	agent  *Agent
	runner *react.Agent
}

// Crew agents + tasks + 分层执行过程。
// 每个请求构建一个全新实例，跨请求不共享任何状态。
type Crew struct {
	tasks       []Task
	specialists map[string]*specialist
	manager     model.ToolCallingChatModel
	limiter     *rate.Limiter
}

// NewCrew 构建 crew：两个 agent、两个 task、一个 manager LLM。
// 凭据缺失时在发起任何网络调用之前返回配置错误。
func NewCrew(ctx context.Context, cfg *config.Config, stockSelection, date string) (*Crew, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		ByAzure:    true,
		BaseURL:    cfg.LLM.Endpoint,
		APIKey:     cfg.LLM.APIKey,
		APIVersion: cfg.LLM.APIVersion,
		Model:      cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	agentTools := []tool.BaseTool{
		NewSearchTool(searcher),
		NewScrapeTool(scrape.FetchText),
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	c := &Crew{
		tasks:       buildTasks(stockSelection, date),
		specialists: make(map[string]*specialist),
		manager:     cm,
		limiter:     limiter,
	}

	for _, a := range []*Agent{financialAnalystAgent(), intrinsicValueAgent()} {
		ragent, err := react.NewAgent(ctx, &react.AgentConfig{
			ToolCallingModel: cm,
			ToolsConfig: compose.ToolsNodeConfig{
				Tools: agentTools,
			},
			MaxStep:               maxAgentSteps,
			StreamToolCallChecker: toolCallChecker,
		})
		if err != nil {
			return nil, fmt.Errorf("创建 agent [%s] 失败: %w", a.Name, err)
		}
		c.specialists[a.Name] = &specialist{agent: a, runner: ragent}
	}

	return c, nil
}

// taskResult 已完成任务及其产出
type taskResult struct {
	Task   Task
	Output string
}

// Kickoff 在 manager 的调度下执行全部任务，返回最后一个任务的产出。
// 任一 specialist 的错误原样向上传递。
func (c *Crew) Kickoff(ctx context.Context) (string, error) {
	pending := append([]Task(nil), c.tasks...)
	completed := make([]taskResult, 0, len(c.tasks))
	var final string

	for len(pending) > 0 {
		decision := c.delegate(ctx, pending, completed)

		idx := 0
		for i, t := range pending {
			if t.Name == decision.NextTask {
				idx = i
				break
			}
		}
		task := pending[idx]

		sp, ok := c.specialists[task.AgentName]
		if !ok {
			return "", fmt.Errorf("task [%s] references unknown agent [%s]", task.Name, task.AgentName)
		}

		logger.Log.Infof("manager 委派任务 [%s] 给 [%s]", task.Name, task.AgentName)
		output, err := c.runTask(ctx, task, sp, decision.Instructions, completed)
		if err != nil {
			return "", err
		}

		completed = append(completed, taskResult{Task: task, Output: output})
		pending = append(pending[:idx], pending[idx+1:]...)
		final = output
	}

	return final, nil
}

// runTask 执行单个任务：agent system 消息 + 任务描述 + 已完成任务的上下文
func (c *Crew) runTask(ctx context.Context, task Task, sp *specialist, instructions string, completed []taskResult) (string, error) {
	userPrompt := task.Prompt()
	if instructions != "" {
		userPrompt += "\n\nNotes from the crew manager:\n" + instructions
	}
	for _, done := range completed {
		userPrompt += fmt.Sprintf("\n\nContext from a previously completed task (%s):\n%s",
			done.Task.Name, done.Output)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	msgs := []*schema.Message{
		schema.SystemMessage(sp.agent.SystemPrompt()),
		schema.UserMessage(userPrompt),
	}

	out, err := sp.runner.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// toolCallChecker 流式输出中检测工具调用
func toolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}
