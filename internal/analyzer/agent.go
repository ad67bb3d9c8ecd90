package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/agent-api/core"
	"github.com/agent-api/core/agent"
	"github.com/agent-api/core/agent/bootstrap"
	"github.com/agent-api/ollama/client"
	"github.com/go-logr/logr"
)

const systemPrompt = "You are a transcription assistant for scanned book pages. " +
	"Reproduce the text of the page faithfully in reading order, then describe any figures or tables in one short paragraph each."

const pagePrompt = "Transcribe this page."

// maxSteps bounds one page: the prompt plus a couple of model turns
const maxSteps = 4

// AgentConfig locates the Ollama server and model
type AgentConfig struct {
	OllamaURL string
	Model     string
}

// Describer turns a page image into text
type Describer interface {
	Describe(ctx context.Context, imagePath string) (string, error)
}

// VisionAgent describes pages with a local vision model
type VisionAgent struct {
	provider *ollamaProvider
	logger   logr.Logger
}

// NewAgent initializes and returns a new vision agent
func NewAgent(ctx context.Context, logger *slog.Logger, cfg AgentConfig) (*VisionAgent, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base, err := ollamaBaseURL(cfg.OllamaURL)
	if err != nil {
		return nil, err
	}

	// Check if Ollama is running
	if err := ping(ctx, base); err != nil {
		return nil, err
	}

	provider := &ollamaProvider{
		client: client.NewClient(client.WithBaseURL(base + "/api")),
		system: systemPrompt,
	}
	if err := provider.UseModel(ctx, &core.Model{ID: cfg.Model}); err != nil {
		return nil, err
	}

	return &VisionAgent{
		provider: provider,
		logger:   logr.FromSlogHandler(logger.Handler()),
	}, nil
}

// Describe runs the vision prompt against one page. Each page gets its own
// agent so conversations never mix across pages or workers.
func (v *VisionAgent) Describe(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("page image unavailable: %w", err)
	}

	a, err := agent.NewAgent(
		bootstrap.WithProvider(v.provider),
		bootstrap.WithSystemPrompt(systemPrompt),
		bootstrap.WithMaxSteps(maxSteps),
		bootstrap.WithLogger(&v.logger),
	)
	if err != nil {
		return "", err
	}

	response, err := a.Run(
		ctx,
		agent.WithInput(pagePrompt),
		agent.WithImagePath(imagePath),
	)
	if err != nil {
		return "", err
	}

	// The last message is the model's answer, not the prompt
	last := response.Pop()
	if last == nil || last.Role != core.AssistantMessageRole {
		return "", errors.New("no response messages received from model")
	}
	return last.Content, nil
}

// ollamaProvider sends chats to a configurable Ollama server, with the
// system prompt leading every conversation
type ollamaProvider struct {
	client *client.OllamaClient
	model  *core.Model
	system string
}

func (p *ollamaProvider) GetCapabilities(ctx context.Context) (*core.Capabilities, error) {
	return &core.Capabilities{
		SupportsChat:   true,
		SupportsImages: true,
		DefaultModel:   p.model.ID,
	}, nil
}

func (p *ollamaProvider) UseModel(ctx context.Context, model *core.Model) error {
	if model == nil || model.ID == "" {
		return errors.New("no model configured")
	}
	p.model = model
	return nil
}

func (p *ollamaProvider) Generate(ctx context.Context, opts *core.GenerateOptions) (*core.Message, error) {
	messages := make([]*client.Message, 0, len(opts.Messages)+1)
	if p.system != "" {
		messages = append(messages, &client.Message{Role: client.RoleSystem, Content: p.system})
	}
	for _, m := range opts.Messages {
		images := make([]string, 0, len(m.Images))
		for _, img := range m.Images {
			images = append(images, img.Base64Encoding)
		}
		messages = append(messages, &client.Message{
			Role:    client.Role(m.Role),
			Content: m.Content,
			Images:  images,
		})
	}

	resp, err := p.client.Chat(ctx, &client.ChatRequest{
		Model:    p.model.ID,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("error calling ollama chat: %w", err)
	}
	if resp == nil {
		return nil, errors.New("empty response from ollama")
	}

	return &core.Message{
		Role:    core.AssistantMessageRole,
		Content: resp.Message.Content,
	}, nil
}

func (p *ollamaProvider) GenerateStream(ctx context.Context, opts *core.GenerateOptions) (<-chan *core.Message, <-chan string, <-chan error) {
	msgs := make(chan *core.Message, 1)
	deltas := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(msgs)
		defer close(deltas)
		defer close(errs)
		m, err := p.Generate(ctx, opts)
		if err != nil {
			errs <- err
			return
		}
		msgs <- m
	}()
	return msgs, deltas, errs
}

// ollamaBaseURL normalizes http://host:11434/ to scheme://host:port
func ollamaBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("invalid ollama url %q", raw)
	}
	port := u.Port()
	if port == "" {
		port = "11434"
	}
	return u.Scheme + "://" + net.JoinHostPort(u.Hostname(), port), nil
}

func ping(ctx context.Context, base string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not reachable at %s: %w", base, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama at %s answered %s", base, resp.Status)
	}
	return nil
}
