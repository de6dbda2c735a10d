package bwa_test

import (
	"context"
	"testing"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/bwa"
	"github.com/advdv/bwire/bwa/bwatest"
	"github.com/advdv/bwire/jsonval"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
)

// TestEnv is a test environment with app-specific fields beyond BaseEnvironment.
type TestEnv struct {
	bwa.BaseEnvironment
	MainTableName string `env:"MAIN_TABLE_NAME,required"`
}

// setTestEnv sets the base variables plus the TestEnv specific ones.
func setTestEnv(t *testing.T, port int) *bwatest.Env {
	t.Helper()
	t.Setenv("MAIN_TABLE_NAME", "test-table")
	return bwatest.SetBaseEnv(t, port)
}

// Handlers demonstrates direct fx injection of app-scoped dependencies.
type Handlers struct {
	rt *bwa.Runtime[TestEnv]
	s3 *s3.Client
}

func NewHandlers(rt *bwa.Runtime[TestEnv], s3 *s3.Client) *Handlers {
	return &Handlers{rt: rt, s3: s3}
}

func (h *Handlers) TestContext(ctx context.Context, _ *bwire.Request) (*bwire.Response, error) {
	env := h.rt.Env()

	itemURL, err := h.rt.Reverse("get-item", "test 123")
	if err != nil {
		return nil, err
	}

	bwa.Span(ctx).AddEvent("context-test")
	bwa.Log(ctx).Info("testing context features")

	return jsonResponse(200, jsonval.Object{
		"table":        jsonval.Scalar(env.MainTableName),
		"service_name": jsonval.Scalar(env.ServiceName),
		"lwa_nil":      boolScalar(bwa.LWA(ctx) == nil),
		"s3":           boolScalar(h.s3 != nil),
		"request_id":   jsonval.Scalar(bwa.RequestID(ctx)),
		"reversed_url": jsonval.Scalar(itemURL),
	}), nil
}

func (h *Handlers) CreateItem(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
	body, err := r.JSON()
	if err != nil {
		return nil, err
	}

	name, err := body.GetString("name")
	if err != nil {
		return nil, bwire.NewError(bwire.CodeUnprocessableEntity, errors.Wrap(err, "name"))
	}

	bwa.Span(ctx).AddEvent("creating-item")
	bwa.Log(ctx).Info("creating item")

	self, _ := h.rt.Reverse("get-item", name)
	return jsonResponse(201, jsonval.Object{
		"id":    jsonval.Scalar(name),
		"table": jsonval.Scalar(h.rt.Env().MainTableName),
		"data":  body,
	}).AddHeader("Location", self), nil
}

func (h *Handlers) GetItem(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
	id, _ := r.DecodedSegment(1)
	self, _ := h.rt.Reverse("get-item", id)

	return jsonResponse(200, jsonval.Object{
		"id":       jsonval.Scalar(id),
		"self_url": jsonval.Scalar(self),
	}), nil
}

func jsonResponse(status uint16, v jsonval.Value) *bwire.Response {
	return bwire.NewResponse(status, bwire.ReasonPhrase(status)).
		SetContentType("application/json").
		SetBody(jsonval.Marshal(v))
}

func boolScalar(b bool) jsonval.Scalar {
	if b {
		return "true"
	}
	return "false"
}
