package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var ErrMissingUrl = errors.New("bad call missing argument url")

type noRetryKey struct{}

// withoutRetry marks a call that must reach the node at most once.
func withoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if noRetry, _ := ctx.Value(noRetryKey{}).(bool); noRetry {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// A rpcClient represents a JSON RPC client (over HTTP(s)) of the marketplace node.
type rpcClient struct {
	url        string
	httpClient *retryablehttp.Client
	timeout    time.Duration
	debug      bool
}

func newRpcClient(url string, timeout time.Duration, debug bool) (*rpcClient, error) {
	if len(url) == 0 {
		return nil, ErrMissingUrl
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	if debug {
		retryClient.Logger = leveledLogger{}
	}
	retryClient.RetryMax = 3
	retryClient.CheckRetry = retryPolicy
	// the response body carries the node's error, keep it for the caller
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &rpcClient{url, retryClient, timeout, debug}, nil
}

// call prepare & exec the request
func (c *rpcClient) call(ctx context.Context, method string, params interface{}, reply interface{}) error {
	payload, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return err
	}

	zap.L().With(zap.String("request", method)).Debug("Client: RPC Request")
	if c.debug {
		zap.L().With(zap.String("request", string(payload))).Debug("Client: RPC Request")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequest("POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Add("Content-Type", "application/json;charset=utf-8")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().With(zap.String("request", method), zap.Error(err)).Warn("Client: RPC Failure")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.debug {
		zap.L().With(zap.String("response", string(data))).Debug("Client: RPC Response")
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, bytes.TrimSpace(data))
	}

	if err := json2.DecodeClientResponse(bytes.NewReader(data), reply); err != nil {
		var jsonErr *json2.Error
		if errors.As(err, &jsonErr) {
			return newRPCError(jsonErr)
		}
		return err
	}
	return nil
}

// leveledLogger routes the retry logs of retryablehttp to zap.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	zap.L().Sugar().Errorw("Client: "+msg, keysAndValues...)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.L().Sugar().Infow("Client: "+msg, keysAndValues...)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	zap.L().Sugar().Debugw("Client: "+msg, keysAndValues...)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	zap.L().Sugar().Warnw("Client: "+msg, keysAndValues...)
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func decodeData(data interface{}, target interface{}) error {
	if data == nil {
		return nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}
