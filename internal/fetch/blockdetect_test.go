package fetch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func respWith(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name      string
		resp      *http.Response
		body      string
		blocked   bool
		blockType BlockType
	}{
		{
			"cloudflare 403 with cf-ray",
			respWith(403, map[string]string{"cf-ray": "abc123"}),
			"<html>denied</html>",
			true, BlockCloudflare,
		},
		{
			"cloudflare 503 server header",
			respWith(503, map[string]string{"server": "cloudflare"}),
			"<html>wait</html>",
			true, BlockCloudflare,
		},
		{
			"challenge page marker",
			respWith(200, nil),
			"<html>Checking your browser before accessing</html>",
			true, BlockCloudflare,
		},
		{
			"captcha page",
			respWith(200, nil),
			`<html><div class="g-recaptcha"></div></html>`,
			true, BlockCaptcha,
		},
		{
			"access denied page",
			respWith(200, nil),
			"<html><h1>Access Denied</h1></html>",
			true, BlockDenied,
		},
		{
			"js shell",
			respWith(200, nil),
			"<html><noscript>Please enable JavaScript</noscript></html>",
			true, BlockJSShell,
		},
		{
			"normal product page",
			respWith(200, nil),
			"<html><h1>Wireless Earbuds</h1><p>₹1,499</p></html>",
			false, BlockNone,
		},
		{
			"nil response",
			nil,
			"",
			false, BlockNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, blockType := DetectBlock(tt.resp, []byte(tt.body))
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.blockType, blockType)
		})
	}
}
