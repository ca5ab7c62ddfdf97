package gpt

import (
	"context"
	"sync"

	gpt "github.com/m-ariany/gpt-chat-client"
)

var (
	client *gpt.Client
	once   sync.Once
)

// Prompter sends a single instruction and returns the model's answer.
type Prompter interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

type ClientFactory interface {
	Prompter
	Client() (Client, error)
}

type factory struct {
}

func NewClientFactory(cnf ClientConfig) (ClientFactory, error) {
	var err error
	once.Do(func() {
		client, err = gpt.NewClient(cnf)
	})
	return &factory{}, err
}

// Client returns a fresh conversation sharing the configuration of the process-wide client.
func (g factory) Client() (Client, error) {
	return Client{Client: client.Clone()}, nil
}

func (g factory) Complete(ctx context.Context, instruction string) (string, error) {
	gptClient, err := g.Client()
	if err != nil {
		return "", err
	}

	gptClient.Instruct(instruction)
	return gptClient.Prompt(ctx, "")
}

type Client struct {
	*gpt.Client
}

type ClientConfig = gpt.ClientConfig
