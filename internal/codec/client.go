package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
)

// #region client-struct
// SignalClient calls the remote signal service. It implements both
// cognition.Generator and cognition.Scorer.
type SignalClient struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
}

var (
	_ cognition.Generator = (*SignalClient)(nil)
	_ cognition.Scorer    = (*SignalClient)(nil)
)

// #endregion client-struct

// #region constructor
// NewSignalClient connects to the signal service at addr. A positive timeout
// bounds every call.
func NewSignalClient(addr string, timeout time.Duration) (*SignalClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &SignalClient{conn: conn, closer: conn.Close, timeout: timeout}, nil
}

// NewSignalClientWithConn wraps an existing connection. Close leaves the
// connection open.
func NewSignalClientWithConn(conn grpc.ClientConnInterface, timeout time.Duration) *SignalClient {
	return &SignalClient{conn: conn, timeout: timeout}
}

// #endregion constructor

// #region close
// Close shuts down a connection the client opened itself.
func (c *SignalClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// #endregion close

// #region generate
// Generate asks the service for candidate hypotheses for input.
func (c *SignalClient) Generate(ctx context.Context, input any) ([]cognition.Candidate, error) {
	in, err := toValue(input)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{"input": in}}

	resp, err := c.invoke(ctx, GenerateHypothesesMethod, req)
	if err != nil {
		return nil, fmt.Errorf("generate hypotheses rpc: %w", err)
	}

	list := resp.GetFields()["candidates"].GetListValue()
	out := make([]cognition.Candidate, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			continue
		}
		out = append(out, cognition.Candidate{
			ID:         fields["id"].GetStringValue(),
			Payload:    fields["payload"].AsInterface(),
			Confidence: optionalNumber(fields["confidence"]),
			Stability:  optionalNumber(fields["stability"]),
		})
	}
	return out, nil
}

// #endregion generate

// #region score
// Score asks the service to rate h for cycle. A response carrying the three
// components is returned as a triple score, otherwise the raw confidence.
func (c *SignalClient) Score(ctx context.Context, h cognition.Hypothesis, cycle int) (cognition.Score, error) {
	hv, err := toValue(h)
	if err != nil {
		return cognition.Score{}, fmt.Errorf("encode hypothesis %s: %w", h.ID, err)
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"hypothesis": hv,
		"cycle":      structpb.NewNumberValue(float64(cycle)),
	}}

	resp, err := c.invoke(ctx, ScoreHypothesisMethod, req)
	if err != nil {
		return cognition.Score{}, fmt.Errorf("score hypothesis %s rpc: %w", h.ID, err)
	}

	f := resp.GetFields()
	if a, ok := f["alignment"]; ok {
		return cognition.TripleScore(
			a.GetNumberValue(),
			f["coherence"].GetNumberValue(),
			f["constraint_satisfaction"].GetNumberValue(),
		), nil
	}
	conf, ok := f["confidence"]
	if !ok {
		return cognition.Score{}, fmt.Errorf("score hypothesis %s: response has no confidence", h.ID)
	}
	return cognition.RawScore(conf.GetNumberValue()), nil
}

// #endregion score

// #region helpers
func (c *SignalClient) invoke(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// toValue converts any JSON-encodable value into a structpb value.
func toValue(v any) (*structpb.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return structpb.NewValue(generic)
}

func optionalNumber(v *structpb.Value) *float64 {
	if v == nil {
		return nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return nil
	}
	n := v.GetNumberValue()
	return &n
}

// #endregion helpers
