package htmlutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("tsb.lib.htmlutil")

// ParseDocument parses an html document and returns its root node.
func ParseDocument(ctx context.Context, r io.Reader) (*html.Node, error) {
	_, span := tracer.Start(ctx, "ParseDocument")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	if len(doc.Nodes) == 0 {
		err := fmt.Errorf("parsed document has no root")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("forms", doc.Find("form").Length()))
	return doc.Nodes[0], nil
}

// ParseString is ParseDocument for documents already in memory.
func ParseString(ctx context.Context, text string) (*html.Node, error) {
	return ParseDocument(ctx, strings.NewReader(text))
}
