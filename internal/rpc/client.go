package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the Pacing service. Session calls take the token NewSession returned.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) call(ctx context.Context, method, token string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// NewSession starts a game and returns its id and bearer token.
func (c *Client) NewSession(ctx context.Context, player string) (id, token string, err error) {
	out, err := c.call(ctx, "NewSession", "", map[string]any{"player": player})
	if err != nil {
		return "", "", err
	}
	f := out.GetFields()
	return f["sessionId"].GetStringValue(), f["token"].GetStringValue(), nil
}

func (c *Client) NextProblem(ctx context.Context, token string) (*structpb.Struct, error) {
	return c.call(ctx, "NextProblem", token, map[string]any{})
}

func (c *Client) Solved(ctx context.Context, token string, problemID int) (*structpb.Struct, error) {
	return c.call(ctx, "Solved", token, map[string]any{"problemId": problemID})
}

func (c *Client) Escaped(ctx context.Context, token string, problemIDs []int) (*structpb.Struct, error) {
	ids := make([]any, len(problemIDs))
	for i, id := range problemIDs {
		ids[i] = id
	}
	return c.call(ctx, "Escaped", token, map[string]any{"problemIds": ids})
}

func (c *Client) Snapshot(ctx context.Context, token string) (*structpb.Struct, error) {
	return c.call(ctx, "Snapshot", token, map[string]any{})
}
