package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	videoModelQuality = "veo-3.1-generate-preview"
	videoModelFast    = "veo-3.1-fast-generate-preview"
)

func videoModel(engine string) string {
	if engine == "quality" {
		return videoModelQuality
	}
	return videoModelFast
}

// GenerateVideo starts a Veo operation, polls until done and downloads the
// first sample.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (Video, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = "Cinematic movement, high quality"
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "9:16"
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = "720p"
	}

	instance := videoInstance{Prompt: prompt}
	if req.StartImage != nil && !req.StartImage.Empty() {
		instance.Image = &videoImage{
			BytesBase64Encoded: stripDataURLPrefix(req.StartImage.Data),
			MimeType:           "image/png",
		}
	}
	payload := predictRequest{
		Instances:  []videoInstance{instance},
		Parameters: videoParameters{SampleCount: 1, AspectRatio: aspect, Resolution: resolution},
	}
	model := videoModel(req.Engine)

	var out Video
	err := c.withRetry(ctx, func(key string) error {
		var op operation
		url := fmt.Sprintf("%s/%s/models/%s:predictLongRunning", c.baseURL, c.apiVersion, model)
		if err := c.postJSON(ctx, key, url, payload, &op); err != nil {
			return err
		}
		c.logger.Info("video operation started", "model", model, "operation", op.Name)

		for !op.Done {
			if err := sleep(ctx, c.pollInterval); err != nil {
				return err
			}
			name := op.Name
			if err := c.getJSON(ctx, key, fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, name), &op); err != nil {
				return err
			}
			if op.Name == "" {
				op.Name = name
			}
		}

		if op.Error != nil {
			return &APIError{Status: op.Error.Code, Message: op.Error.Message}
		}
		if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 ||
			op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI == "" {
			return ErrNoVideo
		}

		uri := op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
		data, mime, err := c.download(ctx, key, uri)
		if err != nil {
			return err
		}
		out = Video{Data: data, MimeType: mime, URI: uri}
		return nil
	})
	return out, err
}

func (c *Client) download(ctx context.Context, key, uri string) ([]byte, string, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+key, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return nil, "", &APIError{Status: httpResp.StatusCode, Message: "Failed to download video data"}
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}

	mime := httpResp.Header.Get("Content-Type")
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") {
		mime = "video/mp4"
	}
	return data, mime, nil
}
