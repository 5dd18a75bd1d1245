package pipeline

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/capability"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/cost"
	"github.com/sells-group/leadgen-cli/internal/registry"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- Capability Mocks ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// --- Fixtures ---

func aiResp(text string, in, out int64) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: in, OutputTokens: out},
	}
}

func testAnthropicConfig() config.AnthropicConfig {
	return config.AnthropicConfig{Model: "sonnet", MaxTokens: 1024}
}

func testRates() cost.Rates {
	return cost.Rates{"sonnet": {Input: 3.00, Output: 15.00}}
}

// testRegistry mirrors the embedded defaults: four tasks in a chain with one
// fan-in at qualification.
func testRegistry() *registry.Registry {
	return &registry.Registry{
		Agents: map[string]registry.AgentConfig{
			"lead_generator": {Role: "Lead Generator", Goal: "find prospects in {industry}", Backstory: "veteran researcher"},
			"contact_agent":  {Role: "Contact Researcher", Goal: "find decision makers", Backstory: "sourcing specialist"},
			"lead_qualifier": {Role: "Lead Qualifier", Goal: "score leads", Backstory: "revenue analyst"},
			"sales_manager":  {Role: "Sales Manager", Goal: "compile the final list", Backstory: "closing strategist"},
		},
		Tasks: []registry.TaskConfig{
			{
				Name:           "lead_generation_task",
				Agent:          "lead_generator",
				Capabilities:   []string{"search", "scrape"},
				Description:    "Find companies in the {industry} industry in {country}.",
				ExpectedOutput: "A list of companies.",
			},
			{
				Name:           "contact_research_task",
				Agent:          "contact_agent",
				Capabilities:   []string{"search"},
				Context:        []string{"lead_generation_task"},
				Description:    "Find key decision makers for each company.",
				ExpectedOutput: "Decision makers per company.",
			},
			{
				Name:           "lead_qualification_task",
				Agent:          "lead_qualifier",
				Context:        []string{"lead_generation_task", "contact_research_task"},
				Description:    "Qualify and score each lead.",
				ExpectedOutput: "Scored leads.",
			},
			{
				Name:           "sales_management_task",
				Agent:          "sales_manager",
				Context:        []string{"lead_qualification_task"},
				Description:    "Compile the final lead list.",
				ExpectedOutput: "A JSON array of leads.",
			},
		},
	}
}

// capSet builds a capability set backed by the given mocks. A nil mock makes
// that capability unavailable.
func capSet(searcher capability.Searcher, scraper capability.Scraper) capability.Set {
	reg := capability.NewRegistry(config.SerperConfig{}, config.ReaderConfig{},
		capability.WithSearcherFactory(func(string, config.SerperConfig) (capability.Searcher, error) {
			if searcher == nil {
				return nil, errors.New("no searcher")
			}
			return searcher, nil
		}),
		capability.WithScraperFactory(func(config.ReaderConfig) (capability.Scraper, error) {
			if scraper == nil {
				return nil, errors.New("no scraper")
			}
			return scraper, nil
		}),
	)
	return reg.Resolve(capability.Credentials{SerperKey: "test-key"})
}
