package messaging

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(serverURL string) *LineClient {
	c := NewLineClient("test-channel-token")
	c.baseURL = serverURL
	return c
}

func TestLineClient_Push(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody pushRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.Push(context.Background(), "U-line-1", "hello"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	if gotPath != "/v2/bot/message/push" {
		t.Errorf("path = %q, want /v2/bot/message/push", gotPath)
	}
	if gotAuth != "Bearer test-channel-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody.To != "U-line-1" {
		t.Errorf("to = %q, want U-line-1", gotBody.To)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Text != "hello" || gotBody.Messages[0].Type != "text" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestLineClient_Reply(t *testing.T) {
	var gotBody replyRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/reply" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.Reply(context.Background(), "reply-token-1", "recorded"); err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if gotBody.ReplyToken != "reply-token-1" {
		t.Errorf("replyToken = %q, want reply-token-1", gotBody.ReplyToken)
	}
}

func TestLineClient_Push_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.Push(context.Background(), "U-line-1", "hello"); err == nil {
		t.Error("Push() error = nil, want error for 401 response")
	}
}

func TestLineClient_Push_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)

	if err := client.Push(context.Background(), "U-line-1", "hello"); err == nil {
		t.Error("Push() error = nil, want error for closed server")
	}
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			signature: valid,
			want:      true,
		},
		{
			name:      "wrong signature",
			signature: base64.StdEncoding.EncodeToString([]byte("not the mac")),
			want:      false,
		},
		{
			name:      "empty signature",
			signature: "",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSignature(secret, body, tt.signature); got != tt.want {
				t.Errorf("ValidateSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSignature_BodySensitive(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	tampered := []byte(`{"events":[{}]}`)
	if ValidateSignature(secret, tampered, signature) {
		t.Error("ValidateSignature() = true for tampered body")
	}
}

func TestWebhookEvent_IsTextMessage(t *testing.T) {
	tests := []struct {
		name  string
		event WebhookEvent
		want  bool
	}{
		{
			name: "text message",
			event: WebhookEvent{
				Type:    "message",
				Message: &WebhookMessage{Type: "text", Text: "hi"},
			},
			want: true,
		},
		{
			name: "sticker message",
			event: WebhookEvent{
				Type:    "message",
				Message: &WebhookMessage{Type: "sticker"},
			},
			want: false,
		},
		{
			name:  "follow event without message",
			event: WebhookEvent{Type: "follow"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.IsTextMessage(); got != tt.want {
				t.Errorf("IsTextMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}
