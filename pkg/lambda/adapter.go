// Package lambda adapts AWS Lambda proxy events to the router's
// request/response model. It is the only package that knows the platform's
// event and context shapes.
package lambda

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Suhaibinator/LRouter/pkg/codec"
	"github.com/Suhaibinator/LRouter/pkg/common"
	"github.com/Suhaibinator/LRouter/pkg/router"
	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// ContextHeader carries a URL-encoded JSON snapshot of the Lambda invocation
// context, letting handlers recover it without a side channel.
const ContextHeader = "X-Lambda-Context"

// ToRequest converts an API Gateway proxy event into a Request. The body is
// base64-decoded when the event says so and then parsed as JSON when
// possible, staying raw text otherwise. Event headers are copied verbatim;
// the invocation context from ctx, if present, is injected under
// ContextHeader.
func ToRequest(ctx context.Context, event events.APIGatewayProxyRequest) *common.Request {
	req := common.NewRequest(event.HTTPMethod, event.Path)

	for k, v := range event.Headers {
		req.Headers.Set(k, v)
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok {
		// The Go context snapshot has no time-remaining accessor to
		// exclude; every field serializes.
		if snapshot, err := json.Marshal(lc); err == nil {
			req.Headers.Set(ContextHeader, url.QueryEscape(string(snapshot)))
		}
	}

	req.Body = codec.DecodeBody(event.Body, event.IsBase64Encoded)
	return req
}

// ToResult converts a settled Result into the API Gateway response shape:
// status and body pass through, and the content type is the single header.
func ToResult(result common.Result) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: result.StatusCode,
		Body:       result.Body,
		Headers:    map[string]string{"Content-Type": result.ContentType},
	}
}

// HandleEvent runs one proxy event through r and returns the platform
// response. The error is non-nil only when ctx ends before the response
// settles.
func HandleEvent(ctx context.Context, r *router.Router, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	result, err := r.Dispatch(ctx, ToRequest(ctx, event))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return ToResult(result), nil
}

// Start registers r as the Lambda handler and blocks serving invocations.
func Start(r *router.Router) {
	awslambda.Start(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return HandleEvent(ctx, r, event)
	})
}
