package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	defaultBedrockModel  = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	defaultBedrockRegion = "us-east-1"
	bedrockClientTimeout = 30 * time.Second
)

func init() {
	RegisterFactory("bedrock", func(config map[string]any) (Generator, error) {
		region := configString(config, "region")
		if region == "" {
			region = defaultBedrockRegion
		}
		return NewBedrockGenerator(region, configString(config, "model"))
	})
}

// BedrockGenerator implements Generator on the AWS Bedrock Converse API.
type BedrockGenerator struct {
	runtime *bedrockruntime.Client
	control *bedrock.Client
	model   string
}

// NewBedrockGenerator creates a generator using the default AWS credential
// chain for the given region.
func NewBedrockGenerator(region, model string) (*BedrockGenerator, error) {
	if model == "" {
		model = defaultBedrockModel
	}

	ctx, cancel := context.WithTimeout(context.Background(), bedrockClientTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockGenerator{
		runtime: bedrockruntime.NewFromConfig(cfg),
		control: bedrock.NewFromConfig(cfg),
		model:   model,
	}, nil
}

// Name returns the provider name.
func (g *BedrockGenerator) Name() string { return "bedrock" }

// Generate performs one Converse call.
func (g *BedrockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: req.Prompt},
				},
			},
		},
	}
	if req.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.System},
		}
	}
	if req.MaxTokens > 0 {
		input.InferenceConfig = &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(req.MaxTokens)),
			Temperature: aws.Float32(float32(req.Temperature)),
		}
	}

	return withRetry(ctx, func() (string, error) {
		out, err := g.runtime.Converse(ctx, input)
		if err != nil {
			return "", fmt.Errorf("bedrock converse: %w", err)
		}
		return bedrockText(out)
	})
}

// Models lists the foundation model ids available in the configured
// region. It implements ModelLister.
func (g *BedrockGenerator) Models(ctx context.Context) ([]string, error) {
	out, err := g.control.ListFoundationModels(ctx, &bedrock.ListFoundationModelsInput{})
	if err != nil {
		return nil, fmt.Errorf("list foundation models: %w", err)
	}

	ids := make([]string, 0, len(out.ModelSummaries))
	for _, summary := range out.ModelSummaries {
		if summary.ModelId != nil {
			ids = append(ids, *summary.ModelId)
		}
	}
	return ids, nil
}

func bedrockText(out *bedrockruntime.ConverseOutput) (string, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return "", ErrEmptyResponse
	}

	var content string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			content += text.Value
		}
	}
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
