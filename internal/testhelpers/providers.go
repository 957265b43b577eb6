// Package testhelpers provides fake weather and language-model providers for tests.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sashabaranov/go-openai"
)

const (
	WeatherPath = "/data/2.5/weather"
	ChatPath    = "/v1/chat/completions"
)

// Response is a canned reply. When Handler is set it is used instead.
type Response struct {
	Status  int
	Body    string
	Handler http.HandlerFunc
}

// FakeProviders routes both provider APIs on one httptest server and counts calls.
type FakeProviders struct {
	Server *httptest.Server

	mu           sync.Mutex
	weather      Response
	chat         Response
	weatherCalls int
	chatCalls    int
	weatherQuery []string
	chatRequests []openai.ChatCompletionRequest
}

// NewFakeProviders starts a server that is closed when t finishes.
func NewFakeProviders(t *testing.T, weather, chat Response) *FakeProviders {
	t.Helper()
	f := &FakeProviders{weather: weather, chat: chat}

	router := mux.NewRouter()
	router.HandleFunc(WeatherPath, f.serveWeather).Methods(http.MethodGet)
	router.HandleFunc(ChatPath, f.serveChat).Methods(http.MethodPost)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

// WeatherURL is the value for the weather client's API URL.
func (f *FakeProviders) WeatherURL() string { return f.Server.URL + WeatherPath }

// OpenAIBaseURL is the value for the advice generator's base URL.
func (f *FakeProviders) OpenAIBaseURL() string { return f.Server.URL + "/v1" }

func (f *FakeProviders) WeatherCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weatherCalls
}

func (f *FakeProviders) ChatCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls
}

// WeatherQueries returns the q parameter of every weather request.
func (f *FakeProviders) WeatherQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.weatherQuery...)
}

// ChatRequests returns every decoded chat completion request.
func (f *FakeProviders) ChatRequests() []openai.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), f.chatRequests...)
}

func (f *FakeProviders) serveWeather(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.weatherCalls++
	f.weatherQuery = append(f.weatherQuery, r.URL.Query().Get("q"))
	resp := f.weather
	f.mu.Unlock()
	reply(w, r, resp)
}

func (f *FakeProviders) serveChat(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.chatCalls++
	f.chatRequests = append(f.chatRequests, req)
	resp := f.chat
	f.mu.Unlock()
	reply(w, r, resp)
}

func reply(w http.ResponseWriter, r *http.Request, resp Response) {
	if resp.Handler != nil {
		resp.Handler(w, r)
		return
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}

// ChatCompletionBody renders a successful chat completion carrying content.
func ChatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 180, "completion_tokens": 240, "total_tokens": 420},
	})
	return string(body)
}

// APIErrorBody renders an OpenAI-style error envelope.
func APIErrorBody(message, errType, code string) string {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    errType,
			"param":   nil,
			"code":    code,
		},
	})
	return string(body)
}

// ParisWeatherBody is a complete OpenWeatherMap response without a rain block.
const ParisWeatherBody = `{
	"name": "Paris",
	"sys": {"country": "FR"},
	"main": {"temp": 18.2, "feels_like": 17.0, "humidity": 60},
	"weather": [{"main": "Clear", "description": "clear sky"}],
	"wind": {"speed": 3.4},
	"clouds": {"all": 10}
}`
