package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// InstrumentOutput receives a full dump of every request/response pair made
// by an instrumented client.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type messageNameKeyType int

var messageNameKey messageNameKeyType

type messageIdKeyType int

var messageIdKey messageIdKeyType

// WithMessageName tags the requests made with `ctx` so their dumps can be told
// apart, e.g. "home" or "signon".
func WithMessageName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, messageNameKey, name)
}

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
}

// InstrumentClient dumps every exchange made through `client` to `output`,
// numbering them in the order the requests were started. The counter belongs
// to the client so separate clients number their dumps independently.
// A nil `output` makes this a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	n := atomic.AddUint64(i.idcounter, 1)
	messageId := fmt.Sprintf("%03d", n)
	if name, ok := ctx.Value(messageNameKey).(string); ok && name != "" {
		messageId = fmt.Sprintf("%s-%s", messageId, name)
	}

	req.SetContext(context.WithValue(ctx, messageIdKey, messageId))
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()

	messageId, ok := ctx.Value(messageIdKey).(string)
	if !ok {
		return fmt.Errorf("failed to retrieve message id from request context")
	}
	i.output.Write(messageId+".txt", formatHttpMessage(res))
	slog.DebugContext(
		ctx, "wrote http message",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"message_id", messageId,
	)
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	messageId, ok := req.Context().Value(messageIdKey).(string)
	if !ok {
		messageId = "unsent"
	}
	i.output.Write(
		messageId+".err.txt",
		fmt.Sprintf("---- REQUEST ----\n\n%s %s\n\n---- ERROR ----\n\n%s", req.Method, req.URL, err),
	)
}
