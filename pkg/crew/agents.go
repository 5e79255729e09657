package crew

import "fmt"

// Agent 一个 LLM 角色：role + goal + backstory
type Agent struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
}

// SystemPrompt 组装 agent 的 system 消息
func (a *Agent) SystemPrompt() string {
	return fmt.Sprintf(`You are %s.
%s

Your personal goal is: %s

You have access to a web search tool and a website scraping tool. Use them to
gather the data you need. Other assistants on the team may rely on your output,
so when you are done, reply with your complete final answer in Markdown.`,
		a.Role, a.Backstory, a.Goal)
}

// Task 绑定到单个 agent 的工作单元
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	AgentName      string
}

// Prompt 组装任务消息
func (t *Task) Prompt() string {
	return fmt.Sprintf("Current task:\n%s\n\nThis is the expected output for the task:\n%s",
		t.Description, t.ExpectedOutput)
}

const (
	FinancialAnalyst  = "financial_analyst"
	IntrinsicValuator = "intrinsic_value_calculator"

	taskFinancialName = "financial_analysis"
	taskValuationName = "intrinsic_value_calculation"
)

func financialAnalystAgent() *Agent {
	return &Agent{
		Name: FinancialAnalyst,
		Role: "Financial Analyst",
		Goal: "Analyze the most valuable ratios and give a score for the company's financial health.",
		Backstory: "As a value investing specialist, you analyze financial ratios, income statements, " +
			"and debt over the last 10 years to provide a clear financial health score. " +
			"Your data-driven insights are the cornerstone of informed investment decisions.",
	}
}

func intrinsicValueAgent() *Agent {
	return &Agent{
		Name: IntrinsicValuator,
		Role: "Intrinsic Value Calculator",
		Goal: "Calculate the intrinsic value for a given stock based on financial analysis.",
		Backstory: "You are an expert in valuation models. Using the data provided by the Financial Analyst, " +
			"you calculate the intrinsic value of a stock to determine if it is under or overvalued.",
	}
}

// buildTasks 根据股票代码和日期构建两个任务，顺序即默认执行顺序
func buildTasks(stockSelection, date string) []Task {
	return []Task{
		{
			Name: taskFinancialName,
			Description: fmt.Sprintf(
				"Analyze the most valuable financial ratios for the stock (%s) as of the date (%s). "+
					"Use your value investor knowledge to provide a clear score for its financial health. "+
					"Focus on profitability, debt, and liquidity.",
				stockSelection, date),
			ExpectedOutput: fmt.Sprintf(
				"A detailed report with a final financial health score for (%s). "+
					"The report must describe the reason for the score, citing specific financial ratios.",
				stockSelection),
			AgentName: FinancialAnalyst,
		},
		{
			Name: taskValuationName,
			Description: fmt.Sprintf(
				"Calculate the intrinsic value of the stock (%s) based on the financial analysis provided.",
				stockSelection),
			ExpectedOutput: fmt.Sprintf(
				"A clear calculation of the intrinsic value per share for %s, along with the valuation "+
					"method used (e.g., DCF, PE ratio). Provide a summary of whether the stock appears "+
					"undervalued, fairly valued, or overvalued at its current price.",
				stockSelection),
			AgentName: IntrinsicValuator,
		},
	}
}
