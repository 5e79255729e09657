package crew

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/value_radar/pkg/logger"
)

const (
	maxManagerRetries = 3
	managerBaseDelay  = 2 * time.Second
)

const managerSystemPrompt = `You are the manager of a financial analysis crew.
Your team members each own one pending task. Decide which pending task should
run next, taking into account what has already been completed, and give the
assignee short working notes.

Respond strictly as a JSON object, without any markdown markers:
{
	"next_task": "<name of one pending task>",
	"instructions": "<short working notes for the assignee>"
}`

// managerDecision manager 的委派决策
type managerDecision struct {
	NextTask     string `json:"next_task"`
	Instructions string `json:"instructions"`
}

// delegate 让 manager LLM 决定下一个任务。
// 解析失败或持续出错时回退到任务声明顺序，保证 crew 总能推进。
func (c *Crew) delegate(ctx context.Context, pending []Task, completed []taskResult) managerDecision {
	fallback := managerDecision{NextTask: pending[0].Name}
	if len(pending) == 1 {
		return fallback
	}

	msgs := []*schema.Message{
		schema.SystemMessage(managerSystemPrompt),
		schema.UserMessage(buildManagerPrompt(pending, completed)),
	}

	var lastErr error
	for i := 0; i <= maxManagerRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}

		resp, err := c.manager.Generate(ctx, msgs)
		if err != nil {
			lastErr = err
			if strings.Contains(err.Error(), "429") ||
				strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				if i < maxManagerRetries {
					time.Sleep(managerBaseDelay * time.Duration(1<<i))
					continue
				}
			}
			break
		}

		decision, err := parseManagerDecision(resp.Content, pending)
		if err != nil {
			lastErr = err
			continue
		}
		return decision
	}

	logger.Log.Warnf("manager 委派失败，按任务声明顺序执行: %v", lastErr)
	return fallback
}

// buildManagerPrompt 汇总待办任务与已完成产出，供 manager 决策
func buildManagerPrompt(pending []Task, completed []taskResult) string {
	var sb strings.Builder
	sb.WriteString("Pending tasks:\n")
	for _, t := range pending {
		fmt.Fprintf(&sb, "- name: %s\n  assignee: %s\n  description: %s\n", t.Name, t.AgentName, t.Description)
	}
	if len(completed) > 0 {
		sb.WriteString("\nCompleted tasks:\n")
		for _, done := range completed {
			fmt.Fprintf(&sb, "- %s (output summary): %s\n", done.Task.Name, truncate(done.Output, 500))
		}
	}
	sb.WriteString("\nWhich pending task should run next?")
	return sb.String()
}

// parseManagerDecision 解析 manager 的 JSON 决策，校验任务名合法
func parseManagerDecision(content string, pending []Task) (managerDecision, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var decision managerDecision
	if err := json.Unmarshal([]byte(cleaned), &decision); err != nil {
		return managerDecision{}, fmt.Errorf("json unmarshal: %w", err)
	}

	for _, t := range pending {
		if t.Name == decision.NextTask {
			return decision, nil
		}
	}
	return managerDecision{}, fmt.Errorf("manager chose unknown task %q", decision.NextTask)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
