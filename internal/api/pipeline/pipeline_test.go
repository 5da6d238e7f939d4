package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingStage(name string, trace *[]string, err error) Stage {
	return Stage{Name: name, Run: func(context.Context, *Request) error {
		*trace = append(*trace, name)
		return err
	}}
}

func TestRun_ExecutesInOrder(t *testing.T) {
	var trace []string
	p := New(recordingStage("a", &trace, nil), recordingStage("b", &trace, nil))

	err := p.Run(context.Background(), NewRequest(http.MethodGet, "/", "1.2.3.4", nil, nil))

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, trace)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	p := New(
		recordingStage("limit", &trace, nil),
		recordingStage("auth", &trace, boom),
		recordingStage("validate", &trace, nil),
	)

	err := p.Run(context.Background(), NewRequest(http.MethodPost, "/products", "1.2.3.4", nil, nil))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"limit", "auth"}, trace)
}

func TestRun_CancelledContext(t *testing.T) {
	var trace []string
	p := New(recordingStage("a", &trace, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx, NewRequest(http.MethodGet, "/", "", nil, nil))

	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, trace)
}

func TestThen_DoesNotMutateBase(t *testing.T) {
	var trace []string
	base := New(recordingStage("general", &trace, nil))
	write := base.Then(recordingStage("product_write", &trace, nil))
	auth := base.Then(recordingStage("auth_limit", &trace, nil))

	assert.Equal(t, []string{"general"}, base.Names())
	assert.Equal(t, []string{"general", "product_write"}, write.Names())
	assert.Equal(t, []string{"general", "auth_limit"}, auth.Names())
	assert.Equal(t, 2, write.Len())
}

func TestStagesShareRequest(t *testing.T) {
	p := New(
		Stage{Name: "set", Run: func(_ context.Context, r *Request) error {
			r.ResponseHeader.Set("X-Test", "1")
			r.Payload = 42
			return nil
		}},
		Stage{Name: "read", Run: func(_ context.Context, r *Request) error {
			if r.Payload != 42 {
				return errors.New("payload not propagated")
			}
			return nil
		}},
	)
	req := NewRequest(http.MethodGet, "/", "", nil, nil)

	require.NoError(t, p.Run(context.Background(), req))
	assert.Equal(t, "1", req.ResponseHeader.Get("X-Test"))
}
